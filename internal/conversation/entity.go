package conversation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// EntityKind discriminates the closed set of shapes an extracted entity
// value can take on the wire.
type EntityKind int

const (
	EntityScalar EntityKind = iota
	EntityList
	EntityMap
)

// EntityValue is a tagged union over the shapes the backend emits for a
// single entity: a scalar, a list of scalars, or a flat mapping of scalars.
// Keeping the set closed makes downstream formatting total.
type EntityValue struct {
	Kind   EntityKind
	Scalar string
	List   []string
	Map    map[string]string
}

func ScalarEntity(v string) EntityValue { return EntityValue{Kind: EntityScalar, Scalar: v} }

func ListEntity(vs ...string) EntityValue { return EntityValue{Kind: EntityList, List: vs} }

func MapEntity(m map[string]string) EntityValue { return EntityValue{Kind: EntityMap, Map: m} }

func scalarString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		// trim "1.000000" style noise
		out := fmt.Sprintf("%g", f)
		return out, true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return fmt.Sprintf("%t", b), true
	}
	return "", false
}

// UnmarshalJSON accepts scalars, arrays of scalars and one-level objects of
// scalars. Anything deeper is rejected rather than silently flattened.
func (v *EntityValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = ScalarEntity("")
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := scalarString(it)
			if !ok {
				return fmt.Errorf("entity list element is not a scalar: %s", string(it))
			}
			list = append(list, s)
		}
		*v = EntityValue{Kind: EntityList, List: list}
		return nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		m := make(map[string]string, len(fields))
		for k, it := range fields {
			s, ok := scalarString(it)
			if !ok {
				return fmt.Errorf("entity field %q is not a scalar: %s", k, string(it))
			}
			m[k] = s
		}
		*v = EntityValue{Kind: EntityMap, Map: m}
		return nil
	default:
		s, ok := scalarString(data)
		if !ok {
			return fmt.Errorf("unsupported entity value: %s", trimmed)
		}
		*v = ScalarEntity(s)
		return nil
	}
}

func (v EntityValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case EntityList:
		return json.Marshal(v.List)
	case EntityMap:
		return json.Marshal(v.Map)
	default:
		return json.Marshal(v.Scalar)
	}
}

// String renders the value for display, in a stable order for maps.
func (v EntityValue) String() string {
	switch v.Kind {
	case EntityList:
		return strings.Join(v.List, ", ")
	case EntityMap:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.Map[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return v.Scalar
	}
}

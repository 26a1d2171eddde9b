package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeMetricsTransport struct {
	mu     sync.Mutex
	calls  int
	result *Metrics
	err    error
}

func (f *fakeMetricsTransport) ConversationMetrics(ctx context.Context, sessionID string) (*Metrics, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.SessionID = sessionID
	return &out, nil
}

func TestRefreshWithoutSessionIsNoop(t *testing.T) {
	sessions := newTestSessions(t)
	transport := &fakeMetricsTransport{result: &Metrics{TotalMessages: 2}}
	cache := NewMetricsCache(sessions, transport, quietLogger())

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if transport.calls != 0 {
		t.Fatalf("refresh without a session must not reach the network")
	}
	if _, ok := cache.Current(); ok {
		t.Fatalf("expected empty cache")
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	sessions := newTestSessions(t)
	if err := sessions.Adopt(context.Background(), "S1", nil, 4, 2); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	transport := &fakeMetricsTransport{result: &Metrics{TotalMessages: 4, UserSatisfactionScore: 0.9}}
	cache := NewMetricsCache(sessions, transport, quietLogger())

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	m, ok := cache.Current()
	if !ok || m.SessionID != "S1" || m.TotalMessages != 4 {
		t.Fatalf("unexpected snapshot: %+v ok=%v", m, ok)
	}

	transport.result = &Metrics{TotalMessages: 6, UserSatisfactionScore: 0.95}
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	m, _ = cache.Current()
	if m.TotalMessages != 6 {
		t.Fatalf("snapshot not replaced: %+v", m)
	}
}

func TestRefreshFailureKeepsStaleValue(t *testing.T) {
	sessions := newTestSessions(t)
	if err := sessions.Adopt(context.Background(), "S1", nil, 4, 2); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	transport := &fakeMetricsTransport{result: &Metrics{TotalMessages: 4}}
	cache := NewMetricsCache(sessions, transport, quietLogger())

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	transport.err = errors.New("gateway timeout")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error from failed refresh")
	}
	m, ok := cache.Current()
	if !ok || m.TotalMessages != 4 {
		t.Fatalf("failed refresh must keep the previous snapshot: %+v ok=%v", m, ok)
	}
}

func TestClearDropsSnapshot(t *testing.T) {
	sessions := newTestSessions(t)
	if err := sessions.Adopt(context.Background(), "S1", nil, 2, 1); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	cache := NewMetricsCache(sessions, &fakeMetricsTransport{result: &Metrics{TotalMessages: 2}}, quietLogger())

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	cache.Clear()
	if _, ok := cache.Current(); ok {
		t.Fatalf("expected empty cache after clear")
	}
}

// Package session owns the backend-issued session identifier and its
// mirrored metadata, durable across restarts.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Storage persists the single session-ID key. Load returns "" when nothing
// is stored.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, id string) error
	Delete(ctx context.Context) error
}

// Store is the single source of truth for the active session. The session ID
// is opaque and immutable once issued; metadata is backend-authoritative and
// replaced wholesale on every adoption.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu                 sync.Mutex
	id                 string
	preferences        map[string]any
	conversationLength int
	interactionCount   int
}

// NewStore loads any previously persisted session ID so a restart resumes
// the same conversation thread.
func NewStore(ctx context.Context, storage Storage, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Store{storage: storage, logger: logger, id: id}, nil
}

// ID returns the current session id, or "" when no session exists.
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Active reports whether a backend-issued session is held.
func (s *Store) Active() bool { return s.ID() != "" }

// Adopt installs the session carried by a chat response. The first adoption
// creates the session; a mismatching ID means the backend lost the old
// session, and the server-supplied one replaces it wholesale. The durable
// copy is written synchronously.
func (s *Store) Adopt(ctx context.Context, id string, preferences map[string]any, conversationLength, interactionCount int) error {
	if id == "" {
		return fmt.Errorf("adopt: empty session id")
	}

	s.mu.Lock()
	if s.id != "" && s.id != id {
		s.logger.Warn("backend issued a new session id, replacing local session",
			"old", s.id, "new", id)
	}
	s.id = id
	s.preferences = preferences
	s.conversationLength = conversationLength
	s.interactionCount = interactionCount
	s.mu.Unlock()

	if err := s.storage.Save(ctx, id); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear drops the session and removes the persisted copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.id = ""
	s.preferences = nil
	s.conversationLength = 0
	s.interactionCount = 0
	s.mu.Unlock()

	if err := s.storage.Delete(ctx); err != nil {
		return fmt.Errorf("remove persisted session: %w", err)
	}
	return nil
}

// Preferences returns a copy of the backend-derived preference map.
func (s *Store) Preferences() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.preferences))
	for k, v := range s.preferences {
		out[k] = v
	}
	return out
}

func (s *Store) ConversationLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationLength
}

func (s *Store) InteractionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactionCount
}

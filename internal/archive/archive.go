// Package archive keeps a local transcript of every exchange in SQLite.
// It is telemetry only: nothing in the conversation core reads it back, and
// a write failure never blocks a turn.
package archive

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"

	gormsqlite "github.com/glebarez/sqlite"
)

type Record struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string  `gorm:"type:varchar(64);index" json:"session_id"`
	MessageID string  `gorm:"type:varchar(26);uniqueIndex;not null" json:"message_id"`
	Sender    string  `gorm:"type:varchar(16);not null" json:"sender"`
	Text      string  `gorm:"type:text;not null" json:"text"`
	Analysis  *string `gorm:"type:text" json:"analysis,omitempty"`

	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Record) TableName() string { return "transcript_records" }

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Open opens (or creates) the archive database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewStore(db)
}

// ArchiveMessage appends one message to the transcript. sessionID may be
// empty for the turn that bootstraps a session.
func (s *Store) ArchiveMessage(ctx context.Context, sessionID string, m conversation.Message) error {
	rec := &Record{
		SessionID: sessionID,
		MessageID: m.ID,
		Sender:    string(m.Sender),
		Text:      m.Text,
		SentAt:    m.Timestamp,
	}
	if !m.Analysis.Empty() {
		b, err := json.Marshal(m.Analysis)
		if err != nil {
			return err
		}
		enc := string(b)
		rec.Analysis = &enc
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// History returns archived records for a session in insertion order.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var recs []Record
	q := s.db.WithContext(ctx).Order("id ASC").Limit(limit)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Package history keeps the per-identity conversation log consumed and
// appended by the answering pipeline, and compresses it into a short context
// paragraph for prompt assembly. The log is append-only from the pipeline's
// perspective; past turns are never edited or deleted.
package history

import (
	"context"
	"time"
)

// Turn is one (question, answer) pair, immutable once written.
type Turn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at,omitempty"`
}

// Store persists ordered turn sequences keyed by user identity.
//
// Load returns an empty sequence for unknown identities and for records
// whose payload cannot be decoded; decode failures are logged, never
// surfaced. Save overwrites the identity's record with the full sequence.
//
// Stores do not serialize concurrent read-modify-write cycles themselves;
// the responder holds a per-identity lock across load-answer-save.
type Store interface {
	Load(ctx context.Context, identity string) ([]Turn, error)
	Save(ctx context.Context, identity string, turns []Turn) error
}

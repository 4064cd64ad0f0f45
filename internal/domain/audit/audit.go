// Package audit records snapshots of documents that were replaced or removed.
// Entries are written inside the procedure's transaction.
package audit

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
)

// Action is the audited operation.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionVoid    Action = "void"
	ActionConvert Action = "convert"
	ActionCancel  Action = "cancel"
	ActionDelete  Action = "delete"
)

// Entry is one audit record. Before holds the state that was replaced.
type Entry struct {
	ID         id.ID
	TenantID   id.ID
	EntityType string
	EntityID   id.ID
	Action     Action
	UserID     string
	Before     any
	After      any
	CreatedAt  time.Time
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

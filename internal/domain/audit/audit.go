// Package audit defines the audit trail contract. Every
// stock-affecting operation and catalog mutation records who did
// what to which entity.
package audit

import (
	"context"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
)

// Action is the kind of audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionSale    Action = "sale"
	ActionReverse Action = "reverse"
	ActionReceive Action = "receive"
	ActionCancel  Action = "cancel"
)

// Entry is a single audit record.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	ActorID    string

	// Changes holds an old/new diff or the relevant operation payload.
	Changes map[string]any
}

// Recorder persists audit entries. The postgres implementation writes
// inside the caller's transaction, so an aborted operation leaves no
// audit trace.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop is a Recorder that discards entries. Used in tests.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

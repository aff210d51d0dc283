package correction

import "context"

// Store persists the audit trail. Audit rows are append-only; nothing
// updates or deletes them.
type Store interface {
	Append(context context.Context, changes []Change) error
	History(context context.Context, kind EntityKind, entityID string) ([]Change, error)
	Get(context context.Context, auditID string) (*Change, error)
}

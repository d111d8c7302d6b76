// Package ledger records what the storefront itself must remember across
// requests: payment sessions already confirmed and console audit events.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/store/dbx"
)

var (
	ErrNotFound  = errors.New("ledger: not found")
	ErrDuplicate = dbx.ErrDuplicate
)

// Confirmation is a checkout session that the backend has confirmed.
// Owner is a digest of the token that confirmed it, never the token itself.
type Confirmation struct {
	SessionID   string
	Owner       string
	OrderID     int64
	Total       float64
	ConfirmedAt time.Time
}

type AuditEvent struct {
	ID        int64
	ActorRole string
	Action    string
	Target    string
	Meta      any
	CreatedAt time.Time
}

type AuditFilter struct {
	Action string
	Target string
	Since  *time.Time
	Until  *time.Time
	Page   int
	Size   int
}

func (f *AuditFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 200 {
		f.Size = 25
	}
}

type Store interface {
	Confirmation(ctx context.Context, sessionID string) (Confirmation, error)
	// RecordConfirmation returns ErrDuplicate when the session is already recorded.
	RecordConfirmation(ctx context.Context, c Confirmation) error

	InsertAudit(ctx context.Context, events ...AuditEvent) error
	ListAudit(ctx context.Context, f AuditFilter) ([]AuditEvent, int, error)
	// PruneAudit deletes events created before the cutoff.
	PruneAudit(ctx context.Context, before time.Time) (int64, error)

	Migrate(ctx context.Context) error
}

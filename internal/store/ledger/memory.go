package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is the ledger used when no database is configured. It forgets
// everything on restart.
type Memory struct {
	mu     sync.RWMutex
	conf   map[string]Confirmation
	audit  []AuditEvent
	nextID int64
}

func NewMemory() *Memory {
	return &Memory{conf: map[string]Confirmation{}}
}

func (m *Memory) Confirmation(_ context.Context, sessionID string) (Confirmation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conf[sessionID]
	if !ok {
		return Confirmation{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) RecordConfirmation(_ context.Context, c Confirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conf[c.SessionID]; ok {
		return ErrDuplicate
	}
	if c.ConfirmedAt.IsZero() {
		c.ConfirmedAt = time.Now().UTC()
	}
	m.conf[c.SessionID] = c
	return nil
}

func (m *Memory) InsertAudit(_ context.Context, events ...AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		m.nextID++
		ev.ID = m.nextID
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = time.Now().UTC()
		}
		m.audit = append(m.audit, ev)
	}
	return nil
}

func (m *Memory) ListAudit(_ context.Context, f AuditFilter) ([]AuditEvent, int, error) {
	f.normalize()
	m.mu.RLock()
	matched := make([]AuditEvent, 0, len(m.audit))
	for _, ev := range m.audit {
		if f.Action != "" && ev.Action != f.Action {
			continue
		}
		if f.Target != "" && ev.Target != f.Target {
			continue
		}
		if f.Since != nil && ev.CreatedAt.Before(*f.Since) {
			continue
		}
		if f.Until != nil && ev.CreatedAt.After(*f.Until) {
			continue
		}
		matched = append(matched, ev)
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	start := (f.Page - 1) * f.Size
	if start >= total {
		return []AuditEvent{}, total, nil
	}
	end := min(start+f.Size, total)
	return matched[start:end], total, nil
}

func (m *Memory) PruneAudit(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.audit[:0]
	var n int64
	for _, ev := range m.audit {
		if ev.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, ev)
	}
	m.audit = kept
	return n, nil
}

func (m *Memory) Migrate(context.Context) error { return nil }

package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/maintenance"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("+06", 6*3600)

	before := time.Date(2025, 5, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 5, 1, 3, 0, 0, 0, loc), maintenance.NextRun(before, 3, 0, loc))

	exactly := time.Date(2025, 5, 1, 3, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 5, 2, 3, 0, 0, 0, loc), maintenance.NextRun(exactly, 3, 0, loc))

	// 22:00 UTC is already 04:00 next day in +06
	utc := time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 5, 3, 3, 0, 0, 0, loc), maintenance.NextRun(utc, 3, 0, loc))
}

func TestPruneAudit(t *testing.T) {
	store := ledger.NewMemory()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertAudit(t.Context(),
		ledger.AuditEvent{ActorRole: "ADMIN", Action: "old", CreatedAt: now.AddDate(0, 0, -100)},
		ledger.AuditEvent{ActorRole: "ADMIN", Action: "new", CreatedAt: now.AddDate(0, 0, -10)},
	))

	n, err := maintenance.PruneAudit(t.Context(), store, 90, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStartAuditRetention_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := maintenance.StartAuditRetention(ctx, ledger.NewMemory(), 90, "bad", "Nowhere/Zone", zap.NewNop())
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("retention loop did not stop")
	}
}

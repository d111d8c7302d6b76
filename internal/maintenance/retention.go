package maintenance

import (
	"context"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"go.uber.org/zap"
)

// NextRun is the first h:m in loc strictly after now.
func NextRun(now time.Time, h, m int, loc *time.Location) time.Time {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PruneAudit deletes audit events older than keepDays and returns how many went.
func PruneAudit(ctx context.Context, store ledger.Store, keepDays int, now time.Time) (int64, error) {
	if keepDays <= 0 {
		keepDays = 90
	}
	return store.PruneAudit(ctx, now.AddDate(0, 0, -keepDays))
}

// StartAuditRetention runs PruneAudit daily at localTime ("HH:MM") in tzName
// until ctx is done. The returned channel closes when the loop exits.
// Call once at startup: maintenance.StartAuditRetention(ctx, store, 90, "03:00", "Asia/Bishkek", log)
func StartAuditRetention(ctx context.Context, store ledger.Store, keepDays int, localTime, tzName string, log *zap.Logger) <-chan struct{} {
	stopped := make(chan struct{})
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Warn("retention: unknown timezone, using local", zap.String("tz", tzName), zap.Error(err))
		loc = time.Local
	}
	h, m, err := validate.ParseClock(localTime)
	if err != nil {
		h, m = 3, 0
	}

	go func() {
		defer close(stopped)
		for {
			timer := time.NewTimer(time.Until(NextRun(time.Now(), h, m, loc)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				n, err := PruneAudit(ctx, store, keepDays, time.Now())
				if err != nil {
					log.Error("retention: prune console_audit failed", zap.Error(err))
					continue
				}
				log.Info("retention: console_audit pruned", zap.Int64("rows", n), zap.Int("keep_days", keepDays))
			}
		}
	}()
	return stopped
}

package storefront

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNoSession = errors.New("checkout: no session id")

type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, token, sessionID string) (*backend.Order, error)
}

// Receipt is what the success page shows.
type Receipt struct {
	OrderID int64
	Total   float64
	// Replayed is true when the receipt came from the ledger instead of the backend.
	Replayed bool
}

// Reconciler confirms a payment session with the backend at most once.
// Concurrent callers for the same session share one fetch; later callers
// read the ledger.
type Reconciler struct {
	payments PaymentConfirmer
	ledger   ledger.Store
	timeout  time.Duration
	log      *zap.Logger
	group    singleflight.Group
}

func NewReconciler(p PaymentConfirmer, store ledger.Store, timeout time.Duration, log *zap.Logger) *Reconciler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{payments: p, ledger: store, timeout: timeout, log: log}
}

// OwnerOf digests a bearer token so the ledger can tie a session to its
// buyer without storing the token.
func OwnerOf(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *Reconciler) Confirm(ctx context.Context, token, sessionID string) (Receipt, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Receipt{}, ErrNoSession
	}
	owner := OwnerOf(token)
	if rec, ok := r.lookup(ctx, sessionID, owner); ok {
		return rec, nil
	}

	v, err, shared := r.group.Do(owner+":"+sessionID, func() (any, error) {
		if rec, ok := r.lookup(ctx, sessionID, owner); ok {
			return rec, nil
		}
		// Detached so one impatient caller cannot cancel the fetch for the others.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		order, err := r.payments.ConfirmPayment(cctx, token, sessionID)
		if err != nil {
			return Receipt{}, fmt.Errorf("confirm session: %w", err)
		}
		rec := Receipt{OrderID: order.OrderID, Total: orderTotal(order)}
		err = r.ledger.RecordConfirmation(cctx, ledger.Confirmation{
			SessionID:   sessionID,
			Owner:       owner,
			OrderID:     rec.OrderID,
			Total:       rec.Total,
			ConfirmedAt: time.Now().UTC(),
		})
		if err != nil && !errors.Is(err, ledger.ErrDuplicate) {
			r.log.Warn("ledger record failed", zap.String("session", sessionID), zap.Error(err))
		}
		return rec, nil
	})
	if err != nil {
		return Receipt{}, err
	}
	rec := v.(Receipt)
	if shared {
		r.log.Debug("payment confirmation shared", zap.String("session", sessionID))
	}
	return rec, nil
}

func (r *Reconciler) lookup(ctx context.Context, sessionID, owner string) (Receipt, bool) {
	c, err := r.ledger.Confirmation(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			r.log.Warn("ledger lookup failed", zap.String("session", sessionID), zap.Error(err))
		}
		return Receipt{}, false
	}
	if c.Owner != "" && c.Owner != owner {
		return Receipt{}, false
	}
	return Receipt{OrderID: c.OrderID, Total: c.Total, Replayed: true}, true
}

func orderTotal(o *backend.Order) float64 {
	if o.DiscountedPrice > 0 {
		return o.DiscountedPrice
	}
	return o.TotalAmount
}

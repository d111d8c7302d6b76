package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/store/dbx"
)

type SQL struct{ db *sql.DB }

func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS checkout_confirmations (
  session_id   text PRIMARY KEY,
  owner        text NOT NULL DEFAULT '',
  order_id     bigint NOT NULL,
  total        numeric(12,2) NOT NULL,
  confirmed_at timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS console_audit (
  id          bigserial PRIMARY KEY,
  actor_role  text NOT NULL,
  action      text NOT NULL,
  target      text,
  meta        jsonb NOT NULL DEFAULT '{}'::jsonb,
  created_at  timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_console_audit_created_at ON console_audit (created_at DESC)`,
}

func (s *SQL) Migrate(ctx context.Context) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

// ---------- confirmations ----------

func (s *SQL) Confirmation(ctx context.Context, sessionID string) (Confirmation, error) {
	const q = `
SELECT session_id, owner, order_id, total, confirmed_at
FROM checkout_confirmations
WHERE session_id = $1`
	var c Confirmation
	err := s.db.QueryRowContext(ctx, q, sessionID).Scan(&c.SessionID, &c.Owner, &c.OrderID, &c.Total, &c.ConfirmedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Confirmation{}, ErrNotFound
	}
	if err != nil {
		return Confirmation{}, err
	}
	return c, nil
}

func (s *SQL) RecordConfirmation(ctx context.Context, c Confirmation) error {
	if c.ConfirmedAt.IsZero() {
		c.ConfirmedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO checkout_confirmations (session_id, owner, order_id, total, confirmed_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, q, c.SessionID, c.Owner, c.OrderID, c.Total, c.ConfirmedAt)
	return dbx.MapPGError(err)
}

// ---------- audit ----------

const auditInsertTmpl = `INSERT INTO console_audit (actor_role, action, target, meta, created_at) VALUES %s`

func (s *SQL) InsertAudit(ctx context.Context, events ...AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	args := make([]any, 0, len(events)*5)
	for _, ev := range events {
		meta := "{}"
		if ev.Meta != nil {
			b, err := json.Marshal(ev.Meta)
			if err != nil {
				return err
			}
			meta = string(b)
		}
		at := ev.CreatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		args = append(args, ev.ActorRole, ev.Action, nullIfEmpty(ev.Target), meta, at)
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(auditInsertTmpl, dbx.Placeholders(len(events), 5)), args...)
	return err
}

func buildAuditWhere(f AuditFilter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if f.Action != "" {
		args = append(args, f.Action)
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Target != "" {
		args = append(args, f.Target)
		clauses = append(clauses, fmt.Sprintf("target = $%d", len(args)))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.Until != nil {
		args = append(args, *f.Until)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (s *SQL) ListAudit(ctx context.Context, f AuditFilter) ([]AuditEvent, int, error) {
	f.normalize()
	where, args := buildAuditWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM console_audit "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Size
	argsWithPage := append(append([]any{}, args...), f.Size, offset)
	listSQL := `
SELECT id, actor_role, action, target, meta, created_at
FROM console_audit
` + where + `
ORDER BY created_at DESC
LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]AuditEvent, 0, f.Size)
	for rows.Next() {
		var ev AuditEvent
		var tgt sql.NullString
		var metaRaw []byte
		if err := rows.Scan(&ev.ID, &ev.ActorRole, &ev.Action, &tgt, &metaRaw, &ev.CreatedAt); err != nil {
			return nil, 0, err
		}
		ev.Target = tgt.String
		ev.Meta = map[string]any{}
		if len(metaRaw) > 0 {
			var m any
			if err := json.Unmarshal(metaRaw, &m); err == nil {
				ev.Meta = m
			} else {
				ev.Meta = string(metaRaw)
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *SQL) PruneAudit(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM console_audit WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

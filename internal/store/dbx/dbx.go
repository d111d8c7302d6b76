package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicate = errors.New("duplicate row")

// Execer/Getter let these helpers work with *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
type Getter interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithinTx runs fn in a transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// MapPGError turns a unique violation into ErrDuplicate; anything else is returned as is.
func MapPGError(err error) error {
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pg.ConstraintName)
	}
	return err
}

// Placeholders returns "($1,$2),($3,$4)..." for rows of width columns.
func Placeholders(rows, width int) string {
	buf := make([]byte, 0, rows*width*4)
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '(')
		for j := 0; j < width; j++ {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, fmt.Sprintf("$%d", i*width+j+1)...)
		}
		buf = append(buf, ')')
	}
	return string(buf)
}

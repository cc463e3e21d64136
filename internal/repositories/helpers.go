package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Monetary columns are NUMERIC in Postgres. Queries select them with ::text
// and rows are scanned into strings, then parsed here, so money never passes
// through float64.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Services use it to retry document-number generation once with
// a refreshed count.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

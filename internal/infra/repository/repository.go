package repository

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blib-backend/internal/infra"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx; repositories never care
// which one they run against.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var dialect = goqu.Dialect("postgres")

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

func wrapErr(msg string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	case isPgErrCode(err, pgErrCodeUniqueViolation):
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	case isPgErrCode(err, pgErrCodeForeignKeyViolation):
		return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
	default:
		return infra.WrapRepoErr(msg, err, infra.KindDBFailure)
	}
}

func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blib-backend/internal/infra/db"
	"blib-backend/internal/infra/repository"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	gateway *db.Gateway
}

func NewPostgresUoW(gateway *db.Gateway) shared.UnitOfWork {
	return &PostgresUoW{gateway: gateway}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pool, err := u.gateway.Pool(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, &pgTx{dbtx: pool})
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pool, err := u.gateway.Pool(ctx)
		if err != nil {
			return err
		}

		pgxTx, err := pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(ctx, &pgTx{dbtx: pgxTx})
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed, resetting store gateway",
					"attempt", attempt+1, "error", rollbackErr.Error())
				u.gateway.Reset()
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx repository.DBTX

	// Lazy-initialized repositories
	titleRepo      shared.TitleRepository
	copyRepo       shared.CopyRepository
	subscriberRepo shared.SubscriberRepository
	borrowRepo     shared.BorrowRepository
	orderRepo      shared.OrderRepository
	activityRepo   shared.ActivityRepository
	commandRepo    shared.CommandRepository
	noticeRepo     shared.NoticeRepository
	userRepo       shared.UserRepository
	reportRepo     shared.ReportRepository
}

func (t *pgTx) Titles() shared.TitleRepository {
	if t.titleRepo == nil {
		t.titleRepo = repository.NewTitleRepository(t.dbtx)
	}
	return t.titleRepo
}

func (t *pgTx) Copies() shared.CopyRepository {
	if t.copyRepo == nil {
		t.copyRepo = repository.NewCopyRepository(t.dbtx)
	}
	return t.copyRepo
}

func (t *pgTx) Subscribers() shared.SubscriberRepository {
	if t.subscriberRepo == nil {
		t.subscriberRepo = repository.NewSubscriberRepository(t.dbtx)
	}
	return t.subscriberRepo
}

func (t *pgTx) Borrows() shared.BorrowRepository {
	if t.borrowRepo == nil {
		t.borrowRepo = repository.NewBorrowRepository(t.dbtx)
	}
	return t.borrowRepo
}

func (t *pgTx) Orders() shared.OrderRepository {
	if t.orderRepo == nil {
		t.orderRepo = repository.NewOrderRepository(t.dbtx)
	}
	return t.orderRepo
}

func (t *pgTx) Activities() shared.ActivityRepository {
	if t.activityRepo == nil {
		t.activityRepo = repository.NewActivityRepository(t.dbtx)
	}
	return t.activityRepo
}

func (t *pgTx) Commands() shared.CommandRepository {
	if t.commandRepo == nil {
		t.commandRepo = repository.NewCommandRepository(t.dbtx)
	}
	return t.commandRepo
}

func (t *pgTx) Notices() shared.NoticeRepository {
	if t.noticeRepo == nil {
		t.noticeRepo = repository.NewNoticeRepository(t.dbtx)
	}
	return t.noticeRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.dbtx)
	}
	return t.userRepo
}

func (t *pgTx) Reports() shared.ReportRepository {
	if t.reportRepo == nil {
		t.reportRepo = repository.NewReportRepository(t.dbtx)
	}
	return t.reportRepo
}

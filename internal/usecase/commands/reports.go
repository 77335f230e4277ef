package commands

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ReportCommands interface {
	Generate(ctx context.Context, year, month int) error
	// EnsureScheduled seeds the self-rescheduling generation chain; a no-op
	// when a generation command is already pending.
	EnsureScheduled(ctx context.Context) error
}

type reportUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReportUseCase(uow shared.UnitOfWork, clk clock.Clock) ReportCommands {
	return &reportUseCaseImpl{uow: uow, clock: clk}
}

// Generate computes the monthly datasets, persists them as JSON documents and
// re-enqueues itself for the end of the next month. Running twice for the
// same month overwrites the previous documents.
func (r *reportUseCaseImpl) Generate(ctx context.Context, year, month int) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		points, err := tx.Reports().SubscriberStatusByDay(ctx, year, month)
		if err != nil {
			return markStore(err)
		}
		if err := saveReport(ctx, tx, shared.ReportKindSubscriberStatus, year, month, points); err != nil {
			return err
		}

		stats, err := tx.Reports().BorrowStatsByGenre(ctx, year, month)
		if err != nil {
			return markStore(err)
		}
		if err := saveReport(ctx, tx, shared.ReportKindBorrowStats, year, month, stats); err != nil {
			return err
		}

		newSubs, err := tx.Reports().CountNewSubscribers(ctx, year, month)
		if err != nil {
			return markStore(err)
		}
		if err := saveReport(ctx, tx, shared.ReportKindNewSubscribers, year, month,
			map[string]int{"count": newSubs}); err != nil {
			return err
		}

		nextYear, nextMonth := nextReportMonth(year, month)
		cmd, err := command.NewGenerateReports(
			ReportGenerationTime(nextYear, nextMonth),
			command.GenerateReportsPayload{Year: nextYear, Month: nextMonth},
		)
		if err != nil {
			return markStore(err)
		}
		if err := tx.Commands().Enqueue(ctx, cmd); err != nil {
			return markStore(err)
		}
		return nil
	})
}

func (r *reportUseCaseImpl) EnsureScheduled(ctx context.Context) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pending, err := tx.Commands().Pending(ctx, command.KindGenerateReports, "")
		if err != nil {
			return markStore(err)
		}
		if pending {
			return nil
		}

		now := r.clock.Now()
		year, month := now.Year(), int(now.Month())
		cmd, err := command.NewGenerateReports(
			ReportGenerationTime(year, month),
			command.GenerateReportsPayload{Year: year, Month: month},
		)
		if err != nil {
			return markStore(err)
		}
		if err := tx.Commands().Enqueue(ctx, cmd); err != nil {
			return markStore(err)
		}
		return nil
	})
}

func saveReport(ctx context.Context, tx shared.Tx, kind string, year, month int, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errs.Wrap(err, "failed to encode report document")
	}
	if err := tx.Reports().Save(ctx, kind, year, month, raw); err != nil {
		return markStore(err)
	}
	return nil
}

func nextReportMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// ReportGenerationTime is when the generation run for a month fires: the
// month's last day at 23:30, after the day's circulation has settled.
func ReportGenerationTime(year, month int) time.Time {
	firstOfNext := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.Add(-24 * time.Hour).Add(23*time.Hour + 30*time.Minute)
}

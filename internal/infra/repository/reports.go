package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/infra"
	"blib-backend/internal/usecase/shared"
)

type ReportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Save overwrites any previous report of the same kind and month. The
// generator may run more than once for a month after an outage.
func (r *ReportRepository) Save(ctx context.Context, kind string, year, month int, data []byte) error {
	query, args, err := dialect.Insert("reports").
		Rows(goqu.Record{
			"kind":         kind,
			"report_year":  year,
			"report_month": month,
			"data":         data,
		}).
		OnConflict(goqu.DoUpdate("kind, report_year, report_month",
			goqu.Record{"data": goqu.I("excluded.data")})).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build report upsert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to save report", err)
	}
	return nil
}

func (r *ReportRepository) Find(ctx context.Context, kind string, year, month int) ([]byte, error) {
	query, args, err := dialect.From("reports").
		Select("data").
		Where(goqu.Ex{"kind": kind, "report_year": year, "report_month": month}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build report query", err, infra.KindDBFailure)
	}

	var data []byte
	if err := r.db.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		return nil, wrapErr("failed to find report", err)
	}
	return data, nil
}

// SubscriberStatusByDay returns, for each day of the month that saw a status
// change, the population snapshot recorded on the day's last status-affecting
// history entry. Days without changes are absent; the caller carries the
// previous point forward.
func (r *ReportRepository) SubscriberStatusByDay(ctx context.Context, year, month int) ([]shared.StatusPoint, error) {
	start, end := monthBounds(year, month)
	query, args, err := dialect.From("history").
		Select(
			goqu.L("distinct on (date_trunc('day', activity_date)) date_trunc('day', activity_date)"),
			goqu.I("active_count"),
			goqu.I("frozen_count"),
		).
		Where(
			goqu.I("active_count").IsNotNull(),
			goqu.I("activity_date").Gte(start),
			goqu.I("activity_date").Lt(end),
		).
		Order(
			goqu.L("date_trunc('day', activity_date)").Asc(),
			goqu.I("activity_date").Desc(),
			goqu.I("history_id").Desc(),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build status report query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to query subscriber status by day", err)
	}
	defer rows.Close()

	var points []shared.StatusPoint
	for rows.Next() {
		var p shared.StatusPoint
		if err := rows.Scan(&p.Date, &p.Active, &p.Frozen); err != nil {
			return nil, wrapErr("failed to scan status point row", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read status point rows", err)
	}
	return points, nil
}

// BorrowStatsByGenre aggregates borrows returned during the month: average
// loan length in days and the share of late returns, grouped by genre.
func (r *ReportRepository) BorrowStatsByGenre(ctx context.Context, year, month int) ([]shared.GenreBorrowStats, error) {
	start, end := monthBounds(year, month)
	query, args, err := dialect.From("borrows").
		Join(goqu.T("copies"), goqu.On(goqu.Ex{"copies.copy_id": goqu.I("borrows.copy_id")})).
		Join(goqu.T("titles"), goqu.On(goqu.Ex{"titles.title_id": goqu.I("copies.title_id")})).
		Select(
			goqu.I("titles.genre"),
			goqu.L("avg(extract(epoch from (date_of_return - date_of_borrow)) / 86400)"),
			goqu.L("100.0 * avg(case when date_of_return > due_date then 1.0 else 0.0 end)"),
		).
		Where(
			goqu.I("borrows.date_of_return").Gte(start),
			goqu.I("borrows.date_of_return").Lt(end),
		).
		GroupBy(goqu.I("titles.genre")).
		Order(goqu.I("titles.genre").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build genre report query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to query borrow stats by genre", err)
	}
	defer rows.Close()

	var stats []shared.GenreBorrowStats
	for rows.Next() {
		var s shared.GenreBorrowStats
		if err := rows.Scan(&s.Genre, &s.AvgDays, &s.LatePercent); err != nil {
			return nil, wrapErr("failed to scan genre stats row", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read genre stats rows", err)
	}
	return stats, nil
}

func (r *ReportRepository) CountNewSubscribers(ctx context.Context, year, month int) (int, error) {
	start, end := monthBounds(year, month)
	query, args, err := dialect.From("history").
		Select(goqu.COUNT("*")).
		Where(
			goqu.Ex{"activity_type": "new subscriber"},
			goqu.I("activity_date").Gte(start),
			goqu.I("activity_date").Lt(end),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build new subscriber count query", err, infra.KindDBFailure)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, wrapErr("failed to count new subscribers", err)
	}
	return n, nil
}

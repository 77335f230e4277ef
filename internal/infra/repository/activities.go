package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/infra"
)

type ActivityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, a activity.Activity) error {
	query, args, err := dialect.Insert("history").
		Rows(goqu.Record{
			"subscriber_id": a.SubscriberID,
			"activity_type": a.Type,
			"description":   a.Description,
			"activity_date": a.Date,
			"active_count":  a.ActiveCount,
			"frozen_count":  a.FrozenCount,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build history insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to append history entry", err)
	}
	return nil
}

func (r *ActivityRepository) BySubscriber(ctx context.Context, subscriberID int) ([]activity.Activity, error) {
	query, args, err := dialect.From("history").
		Select("history_id", "subscriber_id", "activity_type", "description",
			"activity_date", "active_count", "frozen_count").
		Where(goqu.Ex{"subscriber_id": subscriberID}).
		Order(goqu.I("activity_date").Desc(), goqu.I("history_id").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build history query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list history entries", err)
	}
	defer rows.Close()

	var entries []activity.Activity
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(&a.ID, &a.SubscriberID, &a.Type, &a.Description, &a.Date, &a.ActiveCount, &a.FrozenCount); err != nil {
			return nil, wrapErr("failed to scan history row", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read history rows", err)
	}
	return entries, nil
}

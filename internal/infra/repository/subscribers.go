package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/infra"
)

type SubscriberRepository struct {
	db DBTX
}

func NewSubscriberRepository(db DBTX) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

var subscriberCols = []any{"subscriber_id", "subscriber_name", "phone", "email", "status"}

func (r *SubscriberRepository) FindByID(ctx context.Context, id int) (*subscriber.Subscriber, error) {
	query, args, err := dialect.From("subscribers").
		Select(subscriberCols...).
		Where(goqu.Ex{"subscriber_id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build subscriber query", err, infra.KindDBFailure)
	}

	var s subscriber.Subscriber
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Status); err != nil {
		return nil, wrapErr("failed to find subscriber", err)
	}
	return &s, nil
}

func (r *SubscriberRepository) Create(ctx context.Context, sub subscriber.Subscriber) error {
	query, args, err := dialect.Insert("subscribers").
		Rows(goqu.Record{
			"subscriber_id":   sub.ID,
			"subscriber_name": sub.Name,
			"phone":           sub.Phone,
			"email":           sub.Email,
			"status":          sub.Status,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build subscriber insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to create subscriber", err)
	}
	return nil
}

func (r *SubscriberRepository) UpdateContact(ctx context.Context, id int, email, phone string) error {
	query, args, err := dialect.Update("subscribers").
		Set(goqu.Record{"email": email, "phone": phone}).
		Where(goqu.Ex{"subscriber_id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build subscriber contact update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to update subscriber contact", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("subscriber not found for contact update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SubscriberRepository) SetStatus(ctx context.Context, id int, status subscriber.Status) error {
	query, args, err := dialect.Update("subscribers").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"subscriber_id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build subscriber status update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to update subscriber status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("subscriber not found for status update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SubscriberRepository) CountByStatus(ctx context.Context) (int, int, error) {
	query, args, err := dialect.From("subscribers").
		Select(
			goqu.L("count(*) filter (where status = ?)", subscriber.StatusActive),
			goqu.L("count(*) filter (where status = ?)", subscriber.StatusFrozen),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, 0, infra.WrapRepoErr("failed to build status count query", err, infra.KindDBFailure)
	}

	var active, frozen int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&active, &frozen); err != nil {
		return 0, 0, wrapErr("failed to count subscribers by status", err)
	}
	return active, frozen, nil
}

func (r *SubscriberRepository) All(ctx context.Context) ([]subscriber.Subscriber, error) {
	query, args, err := dialect.From("subscribers").
		Select(subscriberCols...).
		Order(goqu.I("subscriber_id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build subscribers query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list subscribers", err)
	}
	defer rows.Close()

	var subs []subscriber.Subscriber
	for rows.Next() {
		var s subscriber.Subscriber
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Status); err != nil {
			return nil, wrapErr("failed to scan subscriber row", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read subscriber rows", err)
	}
	return subs, nil
}

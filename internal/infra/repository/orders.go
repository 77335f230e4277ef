package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/order"
	"blib-backend/internal/infra"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

var orderCols = []any{"order_id", "subscriber_id", "title_id", "copy_id", "order_date", "arrive_date"}

func scanOrder(row interface{ Scan(dest ...any) error }) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.SubscriberID, &o.TitleID, &o.CopyID, &o.OrderDate, &o.ArriveDate)
	return o, err
}

func (r *OrderRepository) ActiveBySubscriber(ctx context.Context, subscriberID int) ([]order.Order, error) {
	query, args, err := dialect.From("orders").
		Select(orderCols...).
		Where(goqu.Ex{"subscriber_id": subscriberID}).
		Order(goqu.I("order_date").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build orders query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list orders", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapErr("failed to scan order row", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read order rows", err)
	}
	return orders, nil
}

func (r *OrderRepository) ByCopy(ctx context.Context, copyID int) (*order.Order, error) {
	query, args, err := dialect.From("orders").
		Select(orderCols...).
		Where(goqu.Ex{"copy_id": copyID}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build order query", err, infra.KindDBFailure)
	}

	o, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("failed to find order by copy", err)
	}
	return &o, nil
}

func (r *OrderRepository) OldestWaitingByTitle(ctx context.Context, titleID int) (*order.Order, error) {
	query, args, err := dialect.From("orders").
		Select(orderCols...).
		Where(goqu.Ex{"title_id": titleID, "copy_id": nil}).
		Order(goqu.I("order_date").Asc()).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build waiting order query", err, infra.KindDBFailure)
	}

	o, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("failed to find oldest waiting order", err)
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, subscriberID, titleID int, at time.Time) error {
	query, args, err := dialect.Insert("orders").
		Rows(goqu.Record{
			"subscriber_id": subscriberID,
			"title_id":      titleID,
			"order_date":    at,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build order insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to create order", err)
	}
	return nil
}

func (r *OrderRepository) AssignCopy(ctx context.Context, orderID, copyID int, arriveDate time.Time) error {
	query, args, err := dialect.Update("orders").
		Set(goqu.Record{"copy_id": copyID, "arrive_date": arriveDate}).
		Where(goqu.Ex{"order_id": orderID}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build order assignment update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to assign copy to order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found for copy assignment", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) DeleteByCopy(ctx context.Context, copyID int) (*order.Order, error) {
	query, args, err := dialect.Delete("orders").
		Where(goqu.Ex{"copy_id": copyID}).
		Returning(orderCols...).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build order delete", err, infra.KindDBFailure)
	}

	o, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("failed to delete order by copy", err)
	}
	return &o, nil
}

package queries

import (
	"context"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type SubscriberQueries interface {
	Get(ctx context.Context, subscriberID int) (*SubscriberView, error)
	All(ctx context.Context) ([]SubscriberView, error)
	ActiveBorrows(ctx context.Context, subscriberID int) ([]BorrowView, error)
	ActiveOrders(ctx context.Context, subscriberID int) ([]OrderView, error)
	History(ctx context.Context, subscriberID int) ([]ActivityView, error)
}

type subscriberQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewSubscriberQueries(uow shared.UnitOfWork) SubscriberQueries {
	return &subscriberQueriesImpl{uow: uow}
}

func (q *subscriberQueriesImpl) Get(ctx context.Context, subscriberID int) (*SubscriberView, error) {
	var view *SubscriberView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSubscriberNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		view = subscriberView(*sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *subscriberQueriesImpl) All(ctx context.Context) ([]SubscriberView, error) {
	var views []SubscriberView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		subs, err := tx.Subscribers().All(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, sub := range subs {
			views = append(views, *subscriberView(sub))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *subscriberQueriesImpl) ActiveBorrows(ctx context.Context, subscriberID int) ([]BorrowView, error) {
	var views []BorrowView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		borrows, err := tx.Borrows().ActiveBySubscriber(ctx, subscriberID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, b := range borrows {
			cp, err := tx.Copies().FindByID(ctx, b.CopyID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			t, err := tx.Titles().FindByID(ctx, cp.TitleID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			views = append(views, BorrowView{
				CopyID:       b.CopyID,
				TitleID:      t.ID,
				TitleName:    t.Name,
				DateOfBorrow: b.DateOfBorrow,
				DueDate:      b.DueDate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *subscriberQueriesImpl) ActiveOrders(ctx context.Context, subscriberID int) ([]OrderView, error) {
	var views []OrderView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		orders, err := tx.Orders().ActiveBySubscriber(ctx, subscriberID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, o := range orders {
			t, err := tx.Titles().FindByID(ctx, o.TitleID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			views = append(views, OrderView{
				ID:         o.ID,
				TitleID:    o.TitleID,
				TitleName:  t.Name,
				CopyID:     o.CopyID,
				OrderDate:  o.OrderDate,
				ArriveDate: o.ArriveDate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *subscriberQueriesImpl) History(ctx context.Context, subscriberID int) ([]ActivityView, error) {
	var views []ActivityView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		entries, err := tx.Activities().BySubscriber(ctx, subscriberID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, a := range entries {
			views = append(views, ActivityView{
				Type:        string(a.Type),
				Description: a.Description,
				Date:        a.Date,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func subscriberView(sub subscriber.Subscriber) *SubscriberView {
	return &SubscriberView{
		ID:     sub.ID,
		Name:   sub.Name,
		Phone:  sub.Phone,
		Email:  sub.Email,
		Status: string(sub.Status),
	}
}

package commands

import (
	"context"
	"fmt"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type OrderCommands interface {
	Order(ctx context.Context, subscriberID, titleID int) error
	CancelOrder(ctx context.Context, copyID int) error
}

type orderUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOrderUseCase(uow shared.UnitOfWork, clk clock.Clock) OrderCommands {
	return &orderUseCaseImpl{uow: uow, clock: clk}
}

func (o *orderUseCaseImpl) Order(ctx context.Context, subscriberID, titleID int) error {
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Missing subscriber or title wins over the frozen rejection.
		sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
		if err != nil {
			return markLookup(err, errs.ErrSubscriberNotFound)
		}
		title, err := tx.Titles().FindByID(ctx, titleID)
		if err != nil {
			return markLookup(err, errs.ErrTitleNotFound)
		}
		if sub.Frozen() {
			return errs.ErrSubscriberFrozen
		}

		if err := rejectIfTitleHeld(ctx, tx, subscriberID, titleID); err != nil {
			return err
		}

		orders, err := tx.Orders().ActiveBySubscriber(ctx, subscriberID)
		if err != nil {
			return markStore(err)
		}
		for _, ord := range orders {
			if ord.TitleID == titleID {
				return errs.ErrTitleAlreadyOrdered
			}
		}

		borrowed, err := tx.Titles().BorrowedCopies(ctx, titleID)
		if err != nil {
			return markStore(err)
		}
		if title.Availability(borrowed) > 0 {
			return errs.ErrCopiesAvailable
		}
		if title.OrderBacklogFull() {
			return errs.ErrOrderBacklogFull
		}

		if err := tx.Orders().Create(ctx, subscriberID, titleID, o.clock.Now()); err != nil {
			return markStore(err)
		}
		if err := tx.Titles().AdjustOrderCount(ctx, titleID, 1); err != nil {
			return markStore(err)
		}

		return appendActivity(ctx, tx, o.clock, activity.Activity{
			SubscriberID: subscriberID,
			Type:         activity.TypeOrder,
			Description:  fmt.Sprintf("ordered %q", title.Name),
		})
	})
}

// CancelOrder releases the copy held by an arrived order. A missing order is
// a no-op success: the subscriber may have picked the copy up between the
// command being scheduled and it firing.
func (o *orderUseCaseImpl) CancelOrder(ctx context.Context, copyID int) error {
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ord, err := tx.Orders().DeleteByCopy(ctx, copyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return markStore(err)
		}

		if err := tx.Titles().AdjustOrderCount(ctx, ord.TitleID, -1); err != nil {
			return markStore(err)
		}

		title, err := tx.Titles().FindByID(ctx, ord.TitleID)
		if err != nil {
			return markLookup(err, errs.ErrTitleNotFound)
		}
		return appendActivity(ctx, tx, o.clock, activity.Activity{
			SubscriberID: ord.SubscriberID,
			Type:         activity.TypeOrder,
			Description:  fmt.Sprintf("order of %q canceled, pickup window passed", title.Name),
		})
	})
}

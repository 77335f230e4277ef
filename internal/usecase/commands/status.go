package commands

import (
	"context"
	"fmt"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type StatusCommands interface {
	Freeze(ctx context.Context, subscriberID int, reason string) error
	Unfreeze(ctx context.Context, subscriberID int) error
}

type statusUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewStatusUseCase(uow shared.UnitOfWork, clk clock.Clock) StatusCommands {
	return &statusUseCaseImpl{uow: uow, clock: clk}
}

func (s *statusUseCaseImpl) Freeze(ctx context.Context, subscriberID int, reason string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return freezeInTx(ctx, tx, s.clock, subscriberID, reason)
	})
}

func (s *statusUseCaseImpl) Unfreeze(ctx context.Context, subscriberID int) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return unfreezeInTx(ctx, tx, s.clock, subscriberID)
	})
}

// freezeInTx freezes a subscriber for the standard duration. Freezing an
// already-frozen subscriber restarts the countdown instead of stacking it:
// the pending unfreeze command is replaced.
func freezeInTx(ctx context.Context, tx shared.Tx, clk clock.Clock, subscriberID int, reason string) error {
	sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
	if err != nil {
		return markLookup(err, errs.ErrSubscriberNotFound)
	}

	unfreezeAt := clock.Today(clk).Add(borrow.FreezeDuration)
	if err := tx.Commands().Cancel(ctx, command.KindUnfreeze, command.UnfreezeKey(subscriberID)); err != nil {
		return markStore(err)
	}
	cmd, err := command.NewUnfreeze(unfreezeAt, command.UnfreezePayload{SubscriberID: subscriberID})
	if err != nil {
		return markStore(err)
	}
	if err := tx.Commands().Enqueue(ctx, cmd); err != nil {
		return markStore(err)
	}

	if sub.Frozen() {
		return nil
	}

	if err := tx.Subscribers().SetStatus(ctx, subscriberID, subscriber.StatusFrozen); err != nil {
		return markStore(err)
	}
	active, frozen, err := tx.Subscribers().CountByStatus(ctx)
	if err != nil {
		return markStore(err)
	}
	return appendActivity(ctx, tx, clk, activity.Activity{
		SubscriberID: subscriberID,
		Type:         activity.TypeFreeze,
		Description:  fmt.Sprintf("account frozen: %s", reason),
	}.WithCounts(active, frozen))
}

// unfreezeInTx reactivates a frozen subscriber; a no-op when already active.
func unfreezeInTx(ctx context.Context, tx shared.Tx, clk clock.Clock, subscriberID int) error {
	sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
	if err != nil {
		return markLookup(err, errs.ErrSubscriberNotFound)
	}
	if !sub.Frozen() {
		return nil
	}

	if err := tx.Subscribers().SetStatus(ctx, subscriberID, subscriber.StatusActive); err != nil {
		return markStore(err)
	}
	active, frozen, err := tx.Subscribers().CountByStatus(ctx)
	if err != nil {
		return markStore(err)
	}
	return appendActivity(ctx, tx, clk, activity.Activity{
		SubscriberID: subscriberID,
		Type:         activity.TypeUnfreeze,
		Description:  "account reactivated",
	}.WithCounts(active, frozen))
}

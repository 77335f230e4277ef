package commands

import (
	"context"
	"fmt"
	"time"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type CirculationCommands interface {
	Borrow(ctx context.Context, subscriberID, copyID int) error
	// Extend lengthens an active borrow. requesterID is checked against the
	// borrow's owner for self-service extensions; librarians extend anyone's.
	Extend(ctx context.Context, copyID, days, requesterID int, actor string) error
	Return(ctx context.Context, copyID int) error
}

type circulationUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	notifier Notifier
}

func NewCirculationUseCase(uow shared.UnitOfWork, clk clock.Clock, notifier Notifier) CirculationCommands {
	return &circulationUseCaseImpl{
		uow:      uow,
		clock:    clk,
		notifier: notifier,
	}
}

func (c *circulationUseCaseImpl) Borrow(ctx context.Context, subscriberID, copyID int) error {
	today := clock.Today(c.clock)

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Precondition order is observable through the rejection reason:
		// copy exists, subscriber exists, not frozen, title not already held,
		// copy not already out, earmark.
		cp, err := tx.Copies().FindByID(ctx, copyID)
		if err != nil {
			return markLookup(err, errs.ErrCopyNotFound)
		}

		sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
		if err != nil {
			return markLookup(err, errs.ErrSubscriberNotFound)
		}
		if sub.Frozen() {
			return errs.ErrSubscriberFrozen
		}

		if err := rejectIfTitleHeld(ctx, tx, subscriberID, cp.TitleID); err != nil {
			return err
		}
		if cp.Borrowed {
			return errs.ErrCopyBorrowed
		}

		title, err := tx.Titles().FindByID(ctx, cp.TitleID)
		if err != nil {
			return markLookup(err, errs.ErrTitleNotFound)
		}

		// A returned copy may be earmarked for a waiting order. The earmark
		// blocks everyone but the order's owner; the owner borrowing it
		// fulfills the order.
		if ord, err := tx.Orders().ByCopy(ctx, copyID); err == nil {
			if !ord.EarmarkedFor(subscriberID) {
				return errs.ErrOrderedByOther
			}
			if _, err := tx.Orders().DeleteByCopy(ctx, copyID); err != nil {
				return markStore(err)
			}
			if err := tx.Titles().AdjustOrderCount(ctx, cp.TitleID, -1); err != nil {
				return markStore(err)
			}
			if err := tx.Commands().Cancel(ctx, command.KindCancelOrder, command.CancelOrderKey(copyID)); err != nil {
				return markStore(err)
			}
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return markStore(err)
		}

		b := borrow.Borrow{
			SubscriberID: subscriberID,
			CopyID:       copyID,
			DateOfBorrow: today,
			DueDate:      today.Add(borrow.LoanPeriod),
		}
		if err := tx.Borrows().Create(ctx, b); err != nil {
			return markStore(err)
		}
		if err := tx.Copies().SetBorrowed(ctx, copyID, true); err != nil {
			return markStore(err)
		}

		if err := scheduleReminder(ctx, tx, b, *sub, *title); err != nil {
			return err
		}

		return appendActivity(ctx, tx, c.clock, activity.Activity{
			SubscriberID: subscriberID,
			Type:         activity.TypeBorrow,
			Description:  fmt.Sprintf("borrowed copy %d of %q, due %s", copyID, title.Name, b.DueDate.Format(time.DateOnly)),
		})
	})
}

func (c *circulationUseCaseImpl) Extend(ctx context.Context, copyID, days, requesterID int, actor string) error {
	today := clock.Today(c.clock)

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Borrows().ActiveByCopy(ctx, copyID)
		if err != nil {
			return markLookup(err, errs.ErrBorrowNotFound)
		}
		if actor == subscriber.ActorSelf && b.SubscriberID != requesterID {
			return errs.ErrBorrowNotFound
		}

		sub, err := tx.Subscribers().FindByID(ctx, b.SubscriberID)
		if err != nil {
			return markLookup(err, errs.ErrSubscriberNotFound)
		}

		if actor == subscriber.ActorSelf {
			if sub.Frozen() {
				return errs.ErrSubscriberFrozen
			}
			if b.Overdue(today) {
				return errs.ErrBorrowOverdue
			}
			if !b.ExtensionWindowOpen(today) {
				return errs.ErrExtensionWindowClosed
			}
		}

		cp, err := tx.Copies().FindByID(ctx, copyID)
		if err != nil {
			return markLookup(err, errs.ErrCopyNotFound)
		}
		title, err := tx.Titles().FindByID(ctx, cp.TitleID)
		if err != nil {
			return markLookup(err, errs.ErrTitleNotFound)
		}
		if title.NumOfOrders > 0 {
			return errs.ErrTitleOrdered
		}

		newDue := b.DueDate.Add(time.Duration(days) * 24 * time.Hour)
		if err := tx.Borrows().UpdateDueDate(ctx, *b, newDue); err != nil {
			return markStore(err)
		}

		// The reminder follows the due date.
		if err := tx.Commands().Cancel(ctx, command.KindSendReminder, command.ReminderKey(b.SubscriberID, copyID)); err != nil {
			return markStore(err)
		}
		extended := *b
		extended.DueDate = newDue
		if err := scheduleReminder(ctx, tx, extended, *sub, *title); err != nil {
			return err
		}

		actType := activity.TypeManualExtension
		desc := fmt.Sprintf("borrow of copy %d of %q extended by %s, due %s", copyID, title.Name, actor, newDue.Format(time.DateOnly))
		if actor == subscriber.ActorSelf {
			actType = activity.TypeExtension
			desc = fmt.Sprintf("borrow of copy %d of %q extended, due %s", copyID, title.Name, newDue.Format(time.DateOnly))
			msg := fmt.Sprintf("subscriber %d extended their borrow of %q until %s", b.SubscriberID, title.Name, newDue.Format(time.DateOnly))
			if err := tx.Notices().Add(ctx, msg, c.clock.Now()); err != nil {
				return markStore(err)
			}
		}

		return appendActivity(ctx, tx, c.clock, activity.Activity{
			SubscriberID: b.SubscriberID,
			Type:         actType,
			Description:  desc,
		})
	})
}

func (c *circulationUseCaseImpl) Return(ctx context.Context, copyID int) error {
	today := clock.Today(c.clock)

	var arrivalMail *mailDraft
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		arrivalMail = nil

		b, err := tx.Borrows().ActiveByCopy(ctx, copyID)
		if err != nil {
			return markLookup(err, errs.ErrBorrowNotFound)
		}
		cp, err := tx.Copies().FindByID(ctx, copyID)
		if err != nil {
			return markLookup(err, errs.ErrCopyNotFound)
		}
		title, err := tx.Titles().FindByID(ctx, cp.TitleID)
		if err != nil {
			return markLookup(err, errs.ErrTitleNotFound)
		}

		if err := tx.Borrows().Close(ctx, *b, today); err != nil {
			return markStore(err)
		}
		if err := tx.Copies().SetBorrowed(ctx, copyID, false); err != nil {
			return markStore(err)
		}
		if err := tx.Commands().Cancel(ctx, command.KindSendReminder, command.ReminderKey(b.SubscriberID, copyID)); err != nil {
			return markStore(err)
		}

		daysLate := b.DaysLate(today)
		if daysLate > 0 {
			if err := appendActivity(ctx, tx, c.clock, activity.Activity{
				SubscriberID: b.SubscriberID,
				Type:         activity.TypeLateReturn,
				Description:  fmt.Sprintf("returned copy %d of %q %d days late", copyID, title.Name, daysLate),
			}); err != nil {
				return err
			}
			if time.Duration(daysLate)*24*time.Hour >= borrow.FreezeThreshold {
				if err := freezeInTx(ctx, tx, c.clock, b.SubscriberID,
					fmt.Sprintf("returned %q %d days late", title.Name, daysLate)); err != nil {
					return err
				}
			}
		} else {
			if err := appendActivity(ctx, tx, c.clock, activity.Activity{
				SubscriberID: b.SubscriberID,
				Type:         activity.TypeReturn,
				Description:  fmt.Sprintf("returned copy %d of %q", copyID, title.Name),
			}); err != nil {
				return err
			}
		}

		// The oldest waiting order claims the returned copy.
		ord, err := tx.Orders().OldestWaitingByTitle(ctx, cp.TitleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return markStore(err)
		}

		if err := tx.Orders().AssignCopy(ctx, ord.ID, copyID, today); err != nil {
			return markStore(err)
		}
		cancelAt := today.Add(borrow.PickupWindow)
		cmd, err := command.NewCancelOrder(cancelAt, command.CancelOrderPayload{CopyID: copyID})
		if err != nil {
			return markStore(err)
		}
		if err := tx.Commands().Enqueue(ctx, cmd); err != nil {
			return markStore(err)
		}

		owner, err := tx.Subscribers().FindByID(ctx, ord.SubscriberID)
		if err != nil {
			return markLookup(err, errs.ErrSubscriberNotFound)
		}
		arrivalMail = &mailDraft{
			email:   owner.Email,
			subject: fmt.Sprintf("your order of %q arrived", title.Name),
			body: fmt.Sprintf("A copy of %q is waiting for you until %s.",
				title.Name, cancelAt.Format(time.DateOnly)),
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Notify only after the assignment committed.
	if arrivalMail != nil {
		return c.notifier.Notify(ctx, arrivalMail.email, arrivalMail.subject, arrivalMail.body)
	}
	return nil
}

type mailDraft struct {
	email   string
	subject string
	body    string
}

// rejectIfTitleHeld rejects a second concurrent borrow of the same title by
// one subscriber.
func rejectIfTitleHeld(ctx context.Context, tx shared.Tx, subscriberID, titleID int) error {
	active, err := tx.Borrows().ActiveBySubscriber(ctx, subscriberID)
	if err != nil {
		return markStore(err)
	}
	for _, b := range active {
		cp, err := tx.Copies().FindByID(ctx, b.CopyID)
		if err != nil {
			return markStore(err)
		}
		if cp.TitleID == titleID {
			return errs.ErrTitleBorrowed
		}
	}
	return nil
}

func scheduleReminder(ctx context.Context, tx shared.Tx, b borrow.Borrow, sub subscriber.Subscriber, title catalog.Title) error {
	cmd, err := command.NewReminder(b.ReminderTime(), command.ReminderPayload{
		SubscriberID: b.SubscriberID,
		CopyID:       b.CopyID,
		Subject:      fmt.Sprintf("%q is due tomorrow", title.Name),
		Body: fmt.Sprintf("Please return or extend your copy of %q by %s.",
			title.Name, b.DueDate.Format(time.DateOnly)),
	})
	if err != nil {
		return markStore(err)
	}
	if err := tx.Commands().Enqueue(ctx, cmd); err != nil {
		return markStore(err)
	}
	return nil
}

func appendActivity(ctx context.Context, tx shared.Tx, clk clock.Clock, a activity.Activity) error {
	a.Date = clk.Now()
	if err := tx.Activities().Append(ctx, a); err != nil {
		return markStore(err)
	}
	return nil
}

package scheduler

import (
	"context"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/shared"
)

// Executor runs one popped command. Effects reuse the same usecase
// transactions as their interactive counterparts.
type Executor struct {
	uow      shared.UnitOfWork
	notifier commands.Notifier
	status   commands.StatusCommands
	orders   commands.OrderCommands
	reports  commands.ReportCommands
}

func NewExecutor(
	uow shared.UnitOfWork,
	notifier commands.Notifier,
	status commands.StatusCommands,
	orders commands.OrderCommands,
	reports commands.ReportCommands,
) *Executor {
	return &Executor{
		uow:      uow,
		notifier: notifier,
		status:   status,
		orders:   orders,
		reports:  reports,
	}
}

func (e *Executor) Execute(ctx context.Context, cmd command.Command) error {
	switch cmd.Kind {
	case command.KindSendReminder:
		return e.sendReminder(ctx, cmd)
	case command.KindUnfreeze:
		p, err := cmd.Unfreeze()
		if err != nil {
			return err
		}
		return e.status.Unfreeze(ctx, p.SubscriberID)
	case command.KindCancelOrder:
		p, err := cmd.CancelOrder()
		if err != nil {
			return err
		}
		return e.orders.CancelOrder(ctx, p.CopyID)
	case command.KindGenerateReports:
		p, err := cmd.GenerateReports()
		if err != nil {
			return err
		}
		return e.reports.Generate(ctx, p.Year, p.Month)
	default:
		return errs.Mark(errs.Newf("no executor for kind %q", cmd.Kind), command.ErrUnknownKind)
	}
}

func (e *Executor) sendReminder(ctx context.Context, cmd command.Command) error {
	p, err := cmd.Reminder()
	if err != nil {
		return err
	}

	var email string
	err = e.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := tx.Subscribers().FindByID(ctx, p.SubscriberID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSubscriberNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		email = sub.Email
		return nil
	})
	if err != nil {
		return err
	}

	return e.notifier.Notify(ctx, email, p.Subject, p.Body)
}

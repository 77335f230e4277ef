package scheduler

import (
	"context"
	"log/slog"
	"time"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/usecase/shared"
)

// Scheduler drains the durable command queue on a fixed cadence. Due
// commands are popped in one transaction and executed sequentially; an
// execution failure is logged and the command stays dropped.
type Scheduler struct {
	uow      shared.UnitOfWork
	executor *Executor
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

func New(uow shared.UnitOfWork, executor *Executor, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		uow:      uow,
		executor: executor,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled. The first cycle runs immediately so
// commands that came due during downtime fire on startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval.String())
	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	var due []command.Command
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cmds, err := tx.Commands().PopDue(ctx, s.clock.Now())
		if err != nil {
			return err
		}
		due = cmds
		return nil
	})
	if err != nil {
		s.logger.Error("failed to pop due commands", "error", err.Error())
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("dispatching due commands", "count", len(due))
	for _, cmd := range due {
		if err := s.executor.Execute(ctx, cmd); err != nil {
			s.logger.Error("command execution failed, dropping",
				"command_id", cmd.ID.String(),
				"kind", string(cmd.Kind),
				"error", err.Error())
		}
	}
}

package bootstrap

import (
	"context"
	"log/slog"

	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/config"
	"blib-backend/internal/scheduler"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/shared"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		scheduler.NewExecutor,
		NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func NewScheduler(
	uow shared.UnitOfWork,
	executor *scheduler.Executor,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *scheduler.Scheduler {
	return scheduler.New(uow, executor, clk, cfg.Scheduler.PollInterval, logger)
}

func startScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler, reports commands.ReportCommands, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := reports.EnsureScheduled(startCtx); err != nil {
				logger.Error("failed to seed report generation command", "error", err.Error())
			}
			go func() {
				defer close(done)
				sched.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

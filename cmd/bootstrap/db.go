package bootstrap

import (
	"context"
	"log/slog"

	"blib-backend/internal/infra/db"
	"blib-backend/internal/pkg/config"

	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewGateway,
	),
)

func NewGateway(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *db.Gateway {
	gateway := db.NewGateway(cfg.DB, logger)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			gateway.Close()
			return nil
		},
	})

	return gateway
}

package bootstrap

import (
	"blib-backend/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	NotifierModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	SchedulerModule,
)

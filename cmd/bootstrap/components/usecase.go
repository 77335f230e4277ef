package components

import (
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCirculationUseCase,
		commands.NewOrderUseCase,
		commands.NewStatusUseCase,
		commands.NewAccountUseCase,
		commands.NewReportUseCase,
		commands.NewNoticeUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCatalogQueries,
		queries.NewSubscriberQueries,
		queries.NewNoticeQueries,
		queries.NewReportQueries,
	),
)

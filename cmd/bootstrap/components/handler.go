package components

import (
	"blib-backend/internal/handler"
	"blib-backend/internal/handler/api"
	"blib-backend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCirculationHandler,
		api.NewCatalogHandler,
		api.NewSubscriberHandler,
		api.NewLibrarianHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

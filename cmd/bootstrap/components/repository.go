package components

import (
	"blib-backend/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories are created lazily per transaction inside the UnitOfWork;
// only the UoW itself is a container component.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

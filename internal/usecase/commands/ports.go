package commands

import (
	"context"

	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/errs"
)

// Notifier delivers a message to a subscriber's mailbox. Implementations are
// fire-and-forget; a returned error means the message could not even be
// handed off, not that delivery failed.
type Notifier interface {
	Notify(ctx context.Context, email, subject, body string) error
}

// markLookup maps a repository NOT_FOUND onto the given domain rejection and
// everything else onto a store failure.
func markLookup(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func markStore(err error) error {
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

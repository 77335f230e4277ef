package queries

import (
	"context"

	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

var ErrReportNotFound = errs.New("report not found")

type ReportQueries interface {
	// Get returns the stored report document as raw JSON.
	Get(ctx context.Context, kind string, year, month int) ([]byte, error)
}

type reportQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewReportQueries(uow shared.UnitOfWork) ReportQueries {
	return &reportQueriesImpl{uow: uow}
}

func (q *reportQueriesImpl) Get(ctx context.Context, kind string, year, month int) ([]byte, error) {
	var doc []byte
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		data, err := tx.Reports().Find(ctx, kind, year, month)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReportNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		doc = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

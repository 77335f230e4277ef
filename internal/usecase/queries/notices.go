package queries

import (
	"context"

	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type NoticeQueries interface {
	List(ctx context.Context) ([]NoticeView, error)
}

type noticeQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewNoticeQueries(uow shared.UnitOfWork) NoticeQueries {
	return &noticeQueriesImpl{uow: uow}
}

func (q *noticeQueriesImpl) List(ctx context.Context) ([]NoticeView, error) {
	var views []NoticeView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		notices, err := tx.Notices().List(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, n := range notices {
			views = append(views, NoticeView{
				ID:        n.ID,
				Message:   n.Message,
				CreatedAt: n.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

package commands

import (
	"context"

	"blib-backend/internal/usecase/shared"
)

type NoticeCommands interface {
	ClearNotices(ctx context.Context) error
}

type noticeUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewNoticeUseCase(uow shared.UnitOfWork) NoticeCommands {
	return &noticeUseCaseImpl{uow: uow}
}

func (n *noticeUseCaseImpl) ClearNotices(ctx context.Context) error {
	return n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Notices().Clear(ctx); err != nil {
			return markStore(err)
		}
		return nil
	})
}

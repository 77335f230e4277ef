package queries

import (
	"context"

	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/shared"
)

type CatalogQueries interface {
	Search(ctx context.Context, keyword string) ([]TitleView, error)
	GetTitle(ctx context.Context, titleID int) (*TitleView, error)
	CopiesByTitle(ctx context.Context, titleID int) ([]CopyView, error)
}

type catalogQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewCatalogQueries(uow shared.UnitOfWork) CatalogQueries {
	return &catalogQueriesImpl{uow: uow}
}

func (q *catalogQueriesImpl) Search(ctx context.Context, keyword string) ([]TitleView, error) {
	var views []TitleView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		titles, err := tx.Titles().SearchByKeyword(ctx, keyword)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, t := range titles {
			v, err := buildTitleView(ctx, tx, t.ID)
			if err != nil {
				return err
			}
			views = append(views, *v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *catalogQueriesImpl) GetTitle(ctx context.Context, titleID int) (*TitleView, error) {
	var view *TitleView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := buildTitleView(ctx, tx, titleID)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *catalogQueriesImpl) CopiesByTitle(ctx context.Context, titleID int) ([]CopyView, error) {
	var views []CopyView
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		copies, err := tx.Copies().FindByTitle(ctx, titleID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, cp := range copies {
			shelf, _ := cp.Location()
			views = append(views, CopyView{
				ID:       cp.ID,
				TitleID:  cp.TitleID,
				Shelf:    shelf,
				Borrowed: cp.Borrowed,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func buildTitleView(ctx context.Context, tx shared.Tx, titleID int) (*TitleView, error) {
	t, err := tx.Titles().FindByID(ctx, titleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTitleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	borrowed, err := tx.Titles().BorrowedCopies(ctx, titleID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	v := &TitleView{
		ID:           t.ID,
		Name:         t.Name,
		Author:       t.Author,
		Description:  t.Description,
		Genre:        t.Genre,
		NumOfCopies:  t.NumOfCopies,
		Availability: t.Availability(borrowed),
	}
	if v.Availability <= 0 {
		next, err := tx.Borrows().NextReturnDate(ctx, titleID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		v.NextReturn = next
	}
	return v, nil
}

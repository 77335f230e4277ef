package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/infra"
)

type CopyRepository struct {
	db DBTX
}

func NewCopyRepository(db DBTX) *CopyRepository {
	return &CopyRepository{db: db}
}

var copyCols = []any{"copy_id", "title_id", "shelf", "is_borrowed"}

func (r *CopyRepository) FindByID(ctx context.Context, id int) (*catalog.Copy, error) {
	query, args, err := dialect.From("copies").
		Select(copyCols...).
		Where(goqu.Ex{"copy_id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build copy query", err, infra.KindDBFailure)
	}

	var c catalog.Copy
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.TitleID, &c.Shelf, &c.Borrowed); err != nil {
		return nil, wrapErr("failed to find copy", err)
	}
	return &c, nil
}

func (r *CopyRepository) FindByTitle(ctx context.Context, titleID int) ([]catalog.Copy, error) {
	query, args, err := dialect.From("copies").
		Select(copyCols...).
		Where(goqu.Ex{"title_id": titleID}).
		Order(goqu.I("copy_id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build copies query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list copies", err)
	}
	defer rows.Close()

	var copies []catalog.Copy
	for rows.Next() {
		var c catalog.Copy
		if err := rows.Scan(&c.ID, &c.TitleID, &c.Shelf, &c.Borrowed); err != nil {
			return nil, wrapErr("failed to scan copy row", err)
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read copy rows", err)
	}
	return copies, nil
}

func (r *CopyRepository) SetBorrowed(ctx context.Context, copyID int, borrowed bool) error {
	query, args, err := dialect.Update("copies").
		Set(goqu.Record{"is_borrowed": borrowed}).
		Where(goqu.Ex{"copy_id": copyID}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build copy update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to update copy borrowed flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("copy not found for borrowed flag update", nil, infra.KindNotFound)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/infra"
)

type TitleRepository struct {
	db DBTX
}

func NewTitleRepository(db DBTX) *TitleRepository {
	return &TitleRepository{db: db}
}

var titleCols = []any{
	"title_id", "title_name", "author_name", "title_description",
	"genre", "num_of_copies", "num_of_orders",
}

func (r *TitleRepository) FindByID(ctx context.Context, id int) (*catalog.Title, error) {
	query, args, err := dialect.From("titles").
		Select(titleCols...).
		Where(goqu.Ex{"title_id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build title query", err, infra.KindDBFailure)
	}

	var t catalog.Title
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&t.ID, &t.Name, &t.Author, &t.Description, &t.Genre, &t.NumOfCopies, &t.NumOfOrders); err != nil {
		return nil, wrapErr("failed to find title", err)
	}
	return &t, nil
}

func (r *TitleRepository) SearchByKeyword(ctx context.Context, keyword string) ([]catalog.Title, error) {
	pattern := "%" + keyword + "%"
	query, args, err := dialect.From("titles").
		Select(titleCols...).
		Where(goqu.Or(
			goqu.I("title_name").ILike(pattern),
			goqu.I("author_name").ILike(pattern),
			goqu.I("title_description").ILike(pattern),
			goqu.I("genre").ILike(pattern),
		)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build title search query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to search titles", err)
	}
	defer rows.Close()

	var titles []catalog.Title
	for rows.Next() {
		var t catalog.Title
		if err := rows.Scan(&t.ID, &t.Name, &t.Author, &t.Description, &t.Genre, &t.NumOfCopies, &t.NumOfOrders); err != nil {
			return nil, wrapErr("failed to scan title row", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read title rows", err)
	}
	return titles, nil
}

func (r *TitleRepository) AdjustOrderCount(ctx context.Context, titleID, delta int) error {
	query, args, err := dialect.Update("titles").
		Set(goqu.Record{"num_of_orders": goqu.L("num_of_orders + ?", delta)}).
		Where(goqu.Ex{"title_id": titleID}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build order count update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to adjust title order count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("title not found for order count adjustment", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TitleRepository) BorrowedCopies(ctx context.Context, titleID int) (int, error) {
	query, args, err := dialect.From("copies").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"title_id": titleID, "is_borrowed": true}).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build borrowed copies query", err, infra.KindDBFailure)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, wrapErr("failed to count borrowed copies", err)
	}
	return n, nil
}

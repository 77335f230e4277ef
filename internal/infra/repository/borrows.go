package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/infra"
)

type BorrowRepository struct {
	db DBTX
}

func NewBorrowRepository(db DBTX) *BorrowRepository {
	return &BorrowRepository{db: db}
}

var borrowCols = []any{"subscriber_id", "copy_id", "date_of_borrow", "due_date", "date_of_return"}

func (r *BorrowRepository) ActiveByCopy(ctx context.Context, copyID int) (*borrow.Borrow, error) {
	query, args, err := dialect.From("borrows").
		Select(borrowCols...).
		Where(goqu.Ex{"copy_id": copyID, "date_of_return": nil}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build active borrow query", err, infra.KindDBFailure)
	}

	var b borrow.Borrow
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&b.SubscriberID, &b.CopyID, &b.DateOfBorrow, &b.DueDate, &b.DateOfReturn); err != nil {
		return nil, wrapErr("failed to find active borrow", err)
	}
	return &b, nil
}

func (r *BorrowRepository) ActiveBySubscriber(ctx context.Context, subscriberID int) ([]borrow.Borrow, error) {
	query, args, err := dialect.From("borrows").
		Select(borrowCols...).
		Where(goqu.Ex{"subscriber_id": subscriberID, "date_of_return": nil}).
		Order(goqu.I("due_date").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build borrows query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list active borrows", err)
	}
	defer rows.Close()

	var borrows []borrow.Borrow
	for rows.Next() {
		var b borrow.Borrow
		if err := rows.Scan(&b.SubscriberID, &b.CopyID, &b.DateOfBorrow, &b.DueDate, &b.DateOfReturn); err != nil {
			return nil, wrapErr("failed to scan borrow row", err)
		}
		borrows = append(borrows, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read borrow rows", err)
	}
	return borrows, nil
}

func (r *BorrowRepository) Create(ctx context.Context, b borrow.Borrow) error {
	query, args, err := dialect.Insert("borrows").
		Rows(goqu.Record{
			"subscriber_id":  b.SubscriberID,
			"copy_id":        b.CopyID,
			"date_of_borrow": b.DateOfBorrow,
			"due_date":       b.DueDate,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build borrow insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to create borrow", err)
	}
	return nil
}

func (r *BorrowRepository) UpdateDueDate(ctx context.Context, b borrow.Borrow, newDue time.Time) error {
	query, args, err := dialect.Update("borrows").
		Set(goqu.Record{"due_date": newDue}).
		Where(goqu.Ex{"copy_id": b.CopyID, "date_of_return": nil}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build due date update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to update borrow due date", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("active borrow not found for due date update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BorrowRepository) Close(ctx context.Context, b borrow.Borrow, returnedOn time.Time) error {
	query, args, err := dialect.Update("borrows").
		Set(goqu.Record{"date_of_return": returnedOn}).
		Where(goqu.Ex{"copy_id": b.CopyID, "date_of_return": nil}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build borrow close update", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to close borrow", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("active borrow not found for close", nil, infra.KindNotFound)
	}
	return nil
}

// NextReturnDate is the soonest due date among active borrows of the title,
// or nil when no copy of the title is out.
func (r *BorrowRepository) NextReturnDate(ctx context.Context, titleID int) (*time.Time, error) {
	query, args, err := dialect.From("borrows").
		Select(goqu.MIN("due_date")).
		Join(goqu.T("copies"), goqu.On(goqu.Ex{"copies.copy_id": goqu.I("borrows.copy_id")})).
		Where(goqu.Ex{"copies.title_id": titleID, "borrows.date_of_return": nil}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build next return query", err, infra.KindDBFailure)
	}

	var due *time.Time
	if err := r.db.QueryRow(ctx, query, args...).Scan(&due); err != nil {
		return nil, wrapErr("failed to find next return date", err)
	}
	return due, nil
}

package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/infra"
	"blib-backend/internal/usecase/shared"
)

type NoticeRepository struct {
	db DBTX
}

func NewNoticeRepository(db DBTX) *NoticeRepository {
	return &NoticeRepository{db: db}
}

func (r *NoticeRepository) Add(ctx context.Context, message string, at time.Time) error {
	query, args, err := dialect.Insert("librarian_messages").
		Rows(goqu.Record{"message": message, "created_at": at}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build notice insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to add librarian notice", err)
	}
	return nil
}

func (r *NoticeRepository) List(ctx context.Context) ([]shared.Notice, error) {
	query, args, err := dialect.From("librarian_messages").
		Select("message_id", "message", "created_at").
		Order(goqu.I("created_at").Asc(), goqu.I("message_id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build notices query", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list librarian notices", err)
	}
	defer rows.Close()

	var notices []shared.Notice
	for rows.Next() {
		var n shared.Notice
		if err := rows.Scan(&n.ID, &n.Message, &n.CreatedAt); err != nil {
			return nil, wrapErr("failed to scan notice row", err)
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read notice rows", err)
	}
	return notices, nil
}

func (r *NoticeRepository) Clear(ctx context.Context) error {
	query, _, err := dialect.Delete("librarian_messages").ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build notices delete", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query); err != nil {
		return wrapErr("failed to clear librarian notices", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/infra"
	"blib-backend/internal/usecase/shared"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, userID int, passwordHash, role string) error {
	query, args, err := dialect.Insert("users").
		Rows(goqu.Record{
			"user_id":       userID,
			"password_hash": passwordHash,
			"role":          role,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build user insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int) (*shared.UserAccount, error) {
	query, args, err := dialect.From("users").
		Select("user_id", "password_hash", "role").
		Where(goqu.Ex{"user_id": userID}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user query", err, infra.KindDBFailure)
	}

	var u shared.UserAccount
	if err := r.db.QueryRow(ctx, query, args...).Scan(&u.UserID, &u.PasswordHash, &u.Role); err != nil {
		return nil, wrapErr("failed to find user", err)
	}
	return &u, nil
}

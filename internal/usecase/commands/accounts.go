package commands

import (
	"context"
	"fmt"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/infra"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/pkg/jwt"
	"blib-backend/internal/pkg/password"
	"blib-backend/internal/usecase/shared"
)

const generatedPasswordLength = 6

type LoginResult struct {
	Token string
	Role  string
}

type AccountCommands interface {
	Register(ctx context.Context, sub subscriber.Subscriber) error
	Login(ctx context.Context, userID int, plainPassword string) (*LoginResult, error)
	UpdateDetails(ctx context.Context, subscriberID int, email, phone, actor string) error
}

type accountUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	jwt      *jwt.Service
	notifier Notifier
}

func NewAccountUseCase(uow shared.UnitOfWork, clk clock.Clock, jwtService *jwt.Service, notifier Notifier) AccountCommands {
	return &accountUseCaseImpl{
		uow:      uow,
		clock:    clk,
		jwt:      jwtService,
		notifier: notifier,
	}
}

// Register creates the subscriber row and its login in one transaction. The
// generated password is mailed to the subscriber, never stored in clear.
func (a *accountUseCaseImpl) Register(ctx context.Context, sub subscriber.Subscriber) error {
	plain, err := password.GenerateNumeric(generatedPasswordLength)
	if err != nil {
		return errs.Wrap(err, "failed to generate password")
	}
	hash, err := password.HashPassword(plain)
	if err != nil {
		return errs.Wrap(err, "failed to hash password")
	}

	sub.Status = subscriber.StatusActive
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Subscribers().Create(ctx, sub); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrSubscriberExists)
			}
			return markStore(err)
		}
		if err := tx.Users().Create(ctx, sub.ID, hash, subscriber.ActorSelf); err != nil {
			return markStore(err)
		}

		active, frozen, err := tx.Subscribers().CountByStatus(ctx)
		if err != nil {
			return markStore(err)
		}
		return appendActivity(ctx, tx, a.clock, activity.Activity{
			SubscriberID: sub.ID,
			Type:         activity.TypeNewSubscriber,
			Description:  fmt.Sprintf("subscriber %q registered", sub.Name),
		}.WithCounts(active, frozen))
	})
	if err != nil {
		return err
	}

	return a.notifier.Notify(ctx, sub.Email, "welcome to the library",
		fmt.Sprintf("Your subscriber number is %d and your password is %s.", sub.ID, plain))
}

func (a *accountUseCaseImpl) Login(ctx context.Context, userID int, plainPassword string) (*LoginResult, error) {
	var account *shared.UserAccount
	err := a.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrInvalidCredentials)
			}
			return markStore(err)
		}
		account = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := password.ComparePassword(account.PasswordHash, plainPassword); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	token, err := a.jwt.GenerateToken(account.UserID, account.Role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}
	return &LoginResult{Token: token, Role: account.Role}, nil
}

func (a *accountUseCaseImpl) UpdateDetails(ctx context.Context, subscriberID int, email, phone, actor string) error {
	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := tx.Subscribers().FindByID(ctx, subscriberID)
		if err != nil {
			return markLookup(err, errs.ErrSubscriberNotFound)
		}

		if err := tx.Subscribers().UpdateContact(ctx, subscriberID, email, phone); err != nil {
			return markStore(err)
		}

		desc := fmt.Sprintf("details updated by %s", actor)
		if email != sub.Email {
			desc += fmt.Sprintf(", email %s to %s", sub.Email, email)
		}
		if phone != sub.Phone {
			desc += fmt.Sprintf(", phone %s to %s", sub.Phone, phone)
		}
		return appendActivity(ctx, tx, a.clock, activity.Activity{
			SubscriberID: subscriberID,
			Type:         activity.TypeUpdateDetails,
			Description:  desc,
		})
	})
}

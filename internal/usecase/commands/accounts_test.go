//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/pkg/jwt"
	"blib-backend/internal/pkg/password"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/shared"
	"blib-backend/tests/common/fake"

	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	suite.Suite
	store    *fake.Store
	clock    *clock.MockClock
	notifier *fakeNotifier
	jwt      *jwt.Service
	uc       commands.AccountCommands
}

func (s *AccountTestSuite) SetupTest() {
	s.store = fake.NewStore()
	s.clock = clock.NewMockClock(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC))
	s.notifier = &fakeNotifier{}
	s.jwt = jwt.NewService("test-secret", time.Hour)
	s.uc = commands.NewAccountUseCase(fake.NewUoW(s.store), s.clock, s.jwt, s.notifier)
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) TestRegister() {
	s.Run("registration creates subscriber, login and welcome mail", func() {
		s.SetupTest()
		err := s.uc.Register(context.Background(), subscriber.Subscriber{
			ID:    1,
			Name:  "Alice",
			Phone: "555-0100",
			Email: "alice@example.com",
		})
		s.Require().NoError(err)

		sub := s.store.Subscribers[1]
		s.Require().NotNil(sub)
		s.Equal(subscriber.StatusActive, sub.Status)

		account := s.store.Users[1]
		s.Require().NotNil(account)
		s.Equal("subscriber", account.Role)
		s.NotEmpty(account.PasswordHash)

		s.Require().Len(s.store.Activities, 1)
		a := s.store.Activities[0]
		s.Equal(activity.TypeNewSubscriber, a.Type)
		s.Require().NotNil(a.ActiveCount)
		s.Equal(1, *a.ActiveCount)

		s.Require().Len(s.notifier.sent, 1)
		s.Equal("alice@example.com", s.notifier.sent[0].email)
		s.Contains(s.notifier.sent[0].body, "subscriber number is 1")
	})

	s.Run("duplicate subscriber number", func() {
		s.SetupTest()
		seedSubscriber(s.store, 1, "Alice", "alice@example.com")

		err := s.uc.Register(context.Background(), subscriber.Subscriber{ID: 1, Name: "Imposter"})
		s.ErrorIs(err, errs.ErrSubscriberExists)
		s.Empty(s.notifier.sent, "no mail without a new account")
	})
}

func (s *AccountTestSuite) TestLogin() {
	s.Run("valid credentials yield a token carrying the role", func() {
		s.SetupTest()
		hash, err := password.HashPassword("123456")
		s.Require().NoError(err)
		s.store.Users[1] = &shared.UserAccount{UserID: 1, PasswordHash: hash, Role: "subscriber"}

		result, err := s.uc.Login(context.Background(), 1, "123456")
		s.Require().NoError(err)
		s.Equal("subscriber", result.Role)

		claims, err := s.jwt.ValidateToken(result.Token)
		s.Require().NoError(err)
		s.Equal(1, claims.UserID)
		s.False(claims.IsLibrarian())
	})

	s.Run("wrong password", func() {
		s.SetupTest()
		hash, err := password.HashPassword("123456")
		s.Require().NoError(err)
		s.store.Users[1] = &shared.UserAccount{UserID: 1, PasswordHash: hash, Role: "subscriber"}

		_, err = s.uc.Login(context.Background(), 1, "654321")
		s.ErrorIs(err, errs.ErrInvalidCredentials)
	})

	s.Run("unknown account looks like bad credentials", func() {
		s.SetupTest()
		_, err := s.uc.Login(context.Background(), 99, "123456")
		s.ErrorIs(err, errs.ErrInvalidCredentials)
	})
}

func (s *AccountTestSuite) TestUpdateDetails() {
	s.Run("contact change is applied and described", func() {
		s.SetupTest()
		seedSubscriber(s.store, 1, "Alice", "alice@example.com")

		err := s.uc.UpdateDetails(context.Background(), 1, "alice@new.example.com", "555-0199", "carla")
		s.Require().NoError(err)

		s.Equal("alice@new.example.com", s.store.Subscribers[1].Email)
		s.Equal("555-0199", s.store.Subscribers[1].Phone)

		s.Require().Len(s.store.Activities, 1)
		a := s.store.Activities[0]
		s.Equal(activity.TypeUpdateDetails, a.Type)
		s.Contains(a.Description, "carla")
		s.Contains(a.Description, "alice@new.example.com")
		s.Contains(a.Description, "555-0199")
	})

	s.Run("unknown subscriber", func() {
		s.SetupTest()
		err := s.uc.UpdateDetails(context.Background(), 99, "a@b.c", "1", "carla")
		s.ErrorIs(err, errs.ErrSubscriberNotFound)
	})
}

//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/commands"
	"blib-backend/tests/common/fake"

	"github.com/stretchr/testify/suite"
)

type CirculationTestSuite struct {
	suite.Suite
	store    *fake.Store
	clock    *clock.MockClock
	notifier *fakeNotifier
	uc       commands.CirculationCommands
}

func (s *CirculationTestSuite) SetupTest() {
	s.store = fake.NewStore()
	s.clock = clock.NewMockClock(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC))
	s.notifier = &fakeNotifier{}
	s.uc = commands.NewCirculationUseCase(fake.NewUoW(s.store), s.clock, s.notifier)

	seedTitle(s.store, 1, "Dune", 2, 10)
	seedSubscriber(s.store, 1, "Alice", "alice@example.com")
	seedSubscriber(s.store, 2, "Bob", "bob@example.com")
}

func TestCirculationSuite(t *testing.T) {
	suite.Run(t, new(CirculationTestSuite))
}

func (s *CirculationTestSuite) mustBorrow(subscriberID, copyID int) {
	s.Require().NoError(s.uc.Borrow(context.Background(), subscriberID, copyID))
}

func (s *CirculationTestSuite) TestBorrow() {
	s.Run("borrow sets due date and schedules reminder", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)

		s.Require().Len(s.store.Borrows, 1)
		b := s.store.Borrows[0]
		s.Equal(date(2024, time.March, 15), b.DueDate)
		s.True(s.store.Copies[10].Borrowed)

		reminders := commandsOfKind(s.store, command.KindSendReminder)
		s.Require().Len(reminders, 1)
		s.Equal(date(2024, time.March, 14), reminders[0].DueAt)
		s.Equal(command.ReminderKey(1, 10), reminders[0].DedupKey)

		s.Require().Len(s.store.Activities, 1)
		s.Equal(activity.TypeBorrow, s.store.Activities[0].Type)
	})

	s.Run("frozen subscriber cannot borrow", func() {
		s.SetupTest()
		s.store.Subscribers[1].Status = subscriber.StatusFrozen

		err := s.uc.Borrow(context.Background(), 1, 10)
		s.ErrorIs(err, errs.ErrSubscriberFrozen)
		s.Empty(s.store.Borrows)
	})

	s.Run("copy already out", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)

		err := s.uc.Borrow(context.Background(), 2, 10)
		s.ErrorIs(err, errs.ErrCopyBorrowed)
	})

	s.Run("second copy of a held title is rejected", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)

		err := s.uc.Borrow(context.Background(), 1, 11)
		s.ErrorIs(err, errs.ErrTitleBorrowed)
	})

	s.Run("unknown subscriber and copy", func() {
		s.SetupTest()
		s.ErrorIs(s.uc.Borrow(context.Background(), 99, 10), errs.ErrSubscriberNotFound)
		s.ErrorIs(s.uc.Borrow(context.Background(), 1, 99), errs.ErrCopyNotFound)
	})

	s.Run("missing copy wins over the frozen rejection", func() {
		s.SetupTest()
		s.store.Subscribers[1].Status = subscriber.StatusFrozen

		err := s.uc.Borrow(context.Background(), 1, 99)
		s.ErrorIs(err, errs.ErrCopyNotFound)
	})

	s.Run("held title wins over the copy being out", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.mustBorrow(2, 11)

		err := s.uc.Borrow(context.Background(), 1, 11)
		s.ErrorIs(err, errs.ErrTitleBorrowed)
	})
}

func (s *CirculationTestSuite) TestBorrowEarmarkedCopy() {
	setup := func() {
		s.SetupTest()
		// Copy 10 is earmarked for Bob's arrived order.
		s.store.AddArrivedOrder(2, 1, 10, s.clock.Now())
		s.store.Titles[1].NumOfOrders = 1
		seedCancelOrder(s.store, 10, s.clock.Now().Add(48*time.Hour))
	}

	s.Run("another subscriber is turned away", func() {
		setup()
		err := s.uc.Borrow(context.Background(), 1, 10)
		s.ErrorIs(err, errs.ErrOrderedByOther)
	})

	s.Run("the owner borrowing fulfills the order", func() {
		setup()
		s.mustBorrow(2, 10)

		s.Empty(s.store.Orders, "fulfilled order is removed")
		s.Equal(0, s.store.Titles[1].NumOfOrders)
		s.Empty(commandsOfKind(s.store, command.KindCancelOrder), "pickup deadline is withdrawn")
		s.Require().Len(s.store.Borrows, 1)
		s.Equal(2, s.store.Borrows[0].SubscriberID)
	})
}

func (s *CirculationTestSuite) TestExtend() {
	s.Run("self extension inside the window", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 9, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf))

		s.Equal(date(2024, time.March, 22), s.store.Borrows[0].DueDate)

		reminders := commandsOfKind(s.store, command.KindSendReminder)
		s.Require().Len(reminders, 1, "old reminder is replaced, not duplicated")
		s.Equal(date(2024, time.March, 21), reminders[0].DueAt)

		s.Require().Len(s.store.Notices, 1)
		s.Contains(s.store.Notices[0].Message, "extended their borrow")

		last := s.store.Activities[len(s.store.Activities)-1]
		s.Equal(activity.TypeExtension, last.Type)
	})

	s.Run("window opens exactly a week before the due date", func() {
		s.SetupTest()
		s.mustBorrow(1, 10) // due March 15
		s.clock.Set(time.Date(2024, time.March, 8, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf))
		s.Equal(date(2024, time.March, 22), s.store.Borrows[0].DueDate)
	})

	s.Run("too early for self extension", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 5, 11, 0, 0, 0, time.UTC))

		err := s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf)
		s.ErrorIs(err, errs.ErrExtensionWindowClosed)
	})

	s.Run("overdue borrow cannot be self extended", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 16, 11, 0, 0, 0, time.UTC))

		err := s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf)
		s.ErrorIs(err, errs.ErrBorrowOverdue)
	})

	s.Run("someone else's borrow looks like no borrow at all", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 9, 11, 0, 0, 0, time.UTC))

		err := s.uc.Extend(context.Background(), 10, 7, 2, subscriber.ActorSelf)
		s.ErrorIs(err, errs.ErrBorrowNotFound)
	})

	s.Run("outstanding orders block any extension", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.store.Titles[1].NumOfOrders = 1
		s.clock.Set(time.Date(2024, time.March, 9, 11, 0, 0, 0, time.UTC))

		s.ErrorIs(s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf), errs.ErrTitleOrdered)
		s.ErrorIs(s.uc.Extend(context.Background(), 10, 7, 0, "carla"), errs.ErrTitleOrdered)
	})

	s.Run("librarian extends outside the window without a notice", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 3, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Extend(context.Background(), 10, 7, 0, "carla"))

		s.Equal(date(2024, time.March, 22), s.store.Borrows[0].DueDate)
		s.Empty(s.store.Notices)
		last := s.store.Activities[len(s.store.Activities)-1]
		s.Equal(activity.TypeManualExtension, last.Type)
		s.Contains(last.Description, "carla")
	})

	s.Run("frozen subscriber cannot self extend", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.store.Subscribers[1].Status = subscriber.StatusFrozen
		s.clock.Set(time.Date(2024, time.March, 9, 11, 0, 0, 0, time.UTC))

		err := s.uc.Extend(context.Background(), 10, 7, 1, subscriber.ActorSelf)
		s.ErrorIs(err, errs.ErrSubscriberFrozen)
	})
}

func (s *CirculationTestSuite) TestReturn() {
	s.Run("on time return", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 10, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Return(context.Background(), 10))

		s.False(s.store.Borrows[0].Active())
		s.False(s.store.Copies[10].Borrowed)
		s.Empty(commandsOfKind(s.store, command.KindSendReminder), "reminder is withdrawn")

		last := s.store.Activities[len(s.store.Activities)-1]
		s.Equal(activity.TypeReturn, last.Type)
	})

	s.Run("a few days late logs but does not freeze", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 18, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Return(context.Background(), 10))

		s.False(s.store.Subscribers[1].Frozen())
		last := s.store.Activities[len(s.store.Activities)-1]
		s.Equal(activity.TypeLateReturn, last.Type)
		s.Contains(last.Description, "3 days late")
	})

	s.Run("a week late freezes the account", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.clock.Set(time.Date(2024, time.March, 22, 11, 0, 0, 0, time.UTC))

		s.Require().NoError(s.uc.Return(context.Background(), 10))

		s.True(s.store.Subscribers[1].Frozen())

		unfreezes := commandsOfKind(s.store, command.KindUnfreeze)
		s.Require().Len(unfreezes, 1)
		s.Equal(date(2024, time.April, 21), unfreezes[0].DueAt)

		types := []activity.Type{}
		for _, a := range s.store.Activities {
			types = append(types, a.Type)
		}
		s.Contains(types, activity.TypeLateReturn)
		s.Contains(types, activity.TypeFreeze)
	})

	s.Run("returned copy goes to the oldest waiting order", func() {
		s.SetupTest()
		s.mustBorrow(1, 10)
		s.mustBorrow(2, 11)
		// Carol waits for a copy of the fully borrowed title.
		seedSubscriber(s.store, 3, "Carol", "carol@example.com")
		s.store.AddWaitingOrder(3, 1, s.clock.Now())
		s.store.Titles[1].NumOfOrders = 1

		s.clock.Set(time.Date(2024, time.March, 10, 11, 0, 0, 0, time.UTC))
		s.Require().NoError(s.uc.Return(context.Background(), 10))

		s.Require().Len(s.store.Orders, 1)
		ord := s.store.Orders[0]
		s.Require().NotNil(ord.CopyID)
		s.Equal(10, *ord.CopyID)
		s.Equal(date(2024, time.March, 10), *ord.ArriveDate)

		cancels := commandsOfKind(s.store, command.KindCancelOrder)
		s.Require().Len(cancels, 1)
		s.Equal(date(2024, time.March, 12), cancels[0].DueAt)

		s.Require().Len(s.notifier.sent, 1)
		s.Equal("carol@example.com", s.notifier.sent[0].email)
		s.Contains(s.notifier.sent[0].subject, "Dune")
	})

	s.Run("no active borrow", func() {
		s.SetupTest()
		s.ErrorIs(s.uc.Return(context.Background(), 10), errs.ErrBorrowNotFound)
	})
}

func (s *CirculationTestSuite) TestSecondLateReturnRestartsFreeze() {
	seedTitle(s.store, 2, "Foundation", 1, 20)
	s.mustBorrow(1, 10)
	s.mustBorrow(1, 20)

	s.clock.Set(time.Date(2024, time.March, 22, 11, 0, 0, 0, time.UTC))
	s.Require().NoError(s.uc.Return(context.Background(), 10))

	s.clock.Set(time.Date(2024, time.March, 25, 11, 0, 0, 0, time.UTC))
	s.Require().NoError(s.uc.Return(context.Background(), 20))

	s.True(s.store.Subscribers[1].Frozen())

	// The second freeze replaces the pending unfreeze instead of stacking.
	unfreezes := commandsOfKind(s.store, command.KindUnfreeze)
	s.Require().Len(unfreezes, 1)
	s.Equal(date(2024, time.April, 24), unfreezes[0].DueAt)

	var freezes int
	for _, a := range s.store.Activities {
		if a.Type == activity.TypeFreeze {
			freezes++
		}
	}
	s.Equal(1, freezes, "still one freeze entry, the status never flipped back")
}

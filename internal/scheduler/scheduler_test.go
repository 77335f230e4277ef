//go:build unit

package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/scheduler"
	"blib-backend/internal/usecase/commands"
	"blib-backend/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type sentMail struct {
	email   string
	subject string
}

type fakeNotifier struct {
	sent []sentMail
}

func (n *fakeNotifier) Notify(_ context.Context, email, subject, _ string) error {
	n.sent = append(n.sent, sentMail{email: email, subject: subject})
	return nil
}

type SchedulerTestSuite struct {
	suite.Suite
	store    *fake.Store
	clock    *clock.MockClock
	notifier *fakeNotifier
	executor *scheduler.Executor
	sched    *scheduler.Scheduler
}

func (s *SchedulerTestSuite) SetupTest() {
	s.store = fake.NewStore()
	s.clock = clock.NewMockClock(time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC))
	s.notifier = &fakeNotifier{}

	uow := fake.NewUoW(s.store)
	status := commands.NewStatusUseCase(uow, s.clock)
	orders := commands.NewOrderUseCase(uow, s.clock)
	reports := commands.NewReportUseCase(uow, s.clock)
	s.executor = scheduler.NewExecutor(uow, s.notifier, status, orders, reports)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.sched = scheduler.New(uow, s.executor, s.clock, time.Minute, logger)

	s.store.Subscribers[1] = &subscriber.Subscriber{
		ID: 1, Name: "Alice", Email: "alice@example.com", Status: subscriber.StatusActive,
	}
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

// runOnce runs exactly the startup cycle: Run drains once before it first
// checks the canceled context.
func (s *SchedulerTestSuite) runOnce() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.sched.Run(ctx)
}

func (s *SchedulerTestSuite) enqueue(cmd command.Command, err error) {
	s.Require().NoError(err)
	s.store.Commands = append(s.store.Commands, cmd)
}

func (s *SchedulerTestSuite) TestExecuteReminder() {
	cmd, err := command.NewReminder(s.clock.Now(), command.ReminderPayload{
		SubscriberID: 1,
		CopyID:       10,
		Subject:      `"Dune" is due tomorrow`,
		Body:         "please return or extend",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.executor.Execute(context.Background(), cmd))

	s.Require().Len(s.notifier.sent, 1)
	s.Equal("alice@example.com", s.notifier.sent[0].email)
	s.Equal(`"Dune" is due tomorrow`, s.notifier.sent[0].subject)
}

func (s *SchedulerTestSuite) TestExecuteUnfreeze() {
	s.store.Subscribers[1].Status = subscriber.StatusFrozen

	cmd, err := command.NewUnfreeze(s.clock.Now(), command.UnfreezePayload{SubscriberID: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.executor.Execute(context.Background(), cmd))
	s.False(s.store.Subscribers[1].Frozen())
}

func (s *SchedulerTestSuite) TestExecuteUnknownKind() {
	err := s.executor.Execute(context.Background(), command.Command{
		ID:   uuid.New(),
		Kind: command.Kind("bogus"),
	})
	s.ErrorIs(err, command.ErrUnknownKind)
}

func (s *SchedulerTestSuite) TestCycleDrainsOnlyDueCommands() {
	s.store.Subscribers[1].Status = subscriber.StatusFrozen

	s.enqueue(command.NewUnfreeze(s.clock.Now().Add(-time.Hour), command.UnfreezePayload{SubscriberID: 1}))
	s.enqueue(command.NewReminder(s.clock.Now().Add(time.Hour), command.ReminderPayload{
		SubscriberID: 1, CopyID: 10, Subject: "later", Body: "later",
	}))

	s.runOnce()

	s.False(s.store.Subscribers[1].Frozen(), "due unfreeze fired")
	s.Empty(s.notifier.sent, "future reminder untouched")
	s.Require().Len(s.store.Commands, 1)
	s.Equal(command.KindSendReminder, s.store.Commands[0].Kind)
}

func (s *SchedulerTestSuite) TestCommandDueExactlyNowWaitsForTheNextCycle() {
	s.store.Subscribers[1].Status = subscriber.StatusFrozen
	s.enqueue(command.NewUnfreeze(s.clock.Now(), command.UnfreezePayload{SubscriberID: 1}))

	s.runOnce()

	s.True(s.store.Subscribers[1].Frozen(), "due strictly before now, not at now")
	s.Len(s.store.Commands, 1)

	s.clock.Add(time.Second)
	s.runOnce()

	s.False(s.store.Subscribers[1].Frozen())
	s.Empty(s.store.Commands)
}

func (s *SchedulerTestSuite) TestFailingCommandIsDroppedAndTheRestRun() {
	s.store.Subscribers[1].Status = subscriber.StatusFrozen

	// A command no executor understands fails; the unfreeze behind it must
	// still run.
	s.store.Commands = append(s.store.Commands, command.Command{
		ID:    uuid.New(),
		Kind:  command.Kind("bogus"),
		DueAt: s.clock.Now().Add(-2 * time.Hour),
	})
	s.enqueue(command.NewUnfreeze(s.clock.Now().Add(-time.Hour), command.UnfreezePayload{SubscriberID: 1}))

	s.runOnce()

	s.False(s.store.Subscribers[1].Frozen())
	s.Empty(s.store.Commands, "failed command is gone, not retried")
}

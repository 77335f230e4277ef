//go:build unit

package commands_test

import (
	"context"
	"time"

	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/tests/common/fake"
)

type sentMail struct {
	email   string
	subject string
	body    string
}

type fakeNotifier struct {
	sent []sentMail
}

func (n *fakeNotifier) Notify(_ context.Context, email, subject, body string) error {
	n.sent = append(n.sent, sentMail{email: email, subject: subject, body: body})
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func commandsOfKind(s *fake.Store, kind command.Kind) []command.Command {
	var out []command.Command
	for _, c := range s.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func seedTitle(s *fake.Store, id int, name string, copies int, firstCopyID int) {
	s.Titles[id] = &catalog.Title{
		ID:          id,
		Name:        name,
		Author:      "Frank Herbert",
		Genre:       "science fiction",
		NumOfCopies: copies,
	}
	for i := 0; i < copies; i++ {
		cid := firstCopyID + i
		s.Copies[cid] = &catalog.Copy{ID: cid, TitleID: id, Shelf: "A-1"}
	}
}

func seedActiveBorrow(s *fake.Store, subscriberID, copyID int, borrowedOn time.Time) {
	s.Borrows = append(s.Borrows, &borrow.Borrow{
		SubscriberID: subscriberID,
		CopyID:       copyID,
		DateOfBorrow: borrowedOn,
		DueDate:      borrowedOn.Add(borrow.LoanPeriod),
	})
	s.Copies[copyID].Borrowed = true
}

func seedCancelOrder(s *fake.Store, copyID int, dueAt time.Time) {
	cmd, err := command.NewCancelOrder(dueAt, command.CancelOrderPayload{CopyID: copyID})
	if err != nil {
		panic(err)
	}
	s.Commands = append(s.Commands, cmd)
}

func seedSubscriber(s *fake.Store, id int, name, email string) {
	s.Subscribers[id] = &subscriber.Subscriber{
		ID:     id,
		Name:   name,
		Phone:  "555-0100",
		Email:  email,
		Status: subscriber.StatusActive,
	}
}

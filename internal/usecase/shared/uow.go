package shared

import (
	"context"
	"time"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/order"
	"blib-backend/internal/domain/subscriber"
)

type UnitOfWork interface {
	// Within: full transaction for multi-step mutations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single-query reads using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Titles() TitleRepository
	Copies() CopyRepository
	Subscribers() SubscriberRepository
	Borrows() BorrowRepository
	Orders() OrderRepository
	Activities() ActivityRepository
	Commands() CommandRepository
	Notices() NoticeRepository
	Users() UserRepository
	Reports() ReportRepository
}

type TitleRepository interface {
	FindByID(ctx context.Context, id int) (*catalog.Title, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]catalog.Title, error)
	// AdjustOrderCount moves the denormalized num_of_orders aggregate; it must
	// run in the same transaction as the order row change it mirrors.
	AdjustOrderCount(ctx context.Context, titleID, delta int) error
	BorrowedCopies(ctx context.Context, titleID int) (int, error)
}

type CopyRepository interface {
	FindByID(ctx context.Context, id int) (*catalog.Copy, error)
	FindByTitle(ctx context.Context, titleID int) ([]catalog.Copy, error)
	SetBorrowed(ctx context.Context, copyID int, borrowed bool) error
}

type SubscriberRepository interface {
	FindByID(ctx context.Context, id int) (*subscriber.Subscriber, error)
	Create(ctx context.Context, sub subscriber.Subscriber) error
	UpdateContact(ctx context.Context, id int, email, phone string) error
	SetStatus(ctx context.Context, id int, status subscriber.Status) error
	// CountByStatus returns the active/frozen population snapshot recorded on
	// status-changing activities.
	CountByStatus(ctx context.Context) (active, frozen int, err error)
	All(ctx context.Context) ([]subscriber.Subscriber, error)
}

type BorrowRepository interface {
	ActiveByCopy(ctx context.Context, copyID int) (*borrow.Borrow, error)
	ActiveBySubscriber(ctx context.Context, subscriberID int) ([]borrow.Borrow, error)
	Create(ctx context.Context, b borrow.Borrow) error
	UpdateDueDate(ctx context.Context, b borrow.Borrow, newDue time.Time) error
	Close(ctx context.Context, b borrow.Borrow, returnedOn time.Time) error
	NextReturnDate(ctx context.Context, titleID int) (*time.Time, error)
}

type OrderRepository interface {
	ActiveBySubscriber(ctx context.Context, subscriberID int) ([]order.Order, error)
	ByCopy(ctx context.Context, copyID int) (*order.Order, error)
	OldestWaitingByTitle(ctx context.Context, titleID int) (*order.Order, error)
	Create(ctx context.Context, subscriberID, titleID int, at time.Time) error
	AssignCopy(ctx context.Context, orderID, copyID int, arriveDate time.Time) error
	// DeleteByCopy removes the order holding the copy and returns it;
	// KindNotFound when no order holds the copy.
	DeleteByCopy(ctx context.Context, copyID int) (*order.Order, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, a activity.Activity) error
	BySubscriber(ctx context.Context, subscriberID int) ([]activity.Activity, error)
}

type CommandRepository interface {
	Enqueue(ctx context.Context, cmd command.Command) error
	// Cancel deletes every command matching (kind, dedupKey); canceling a
	// non-existent command is not an error.
	Cancel(ctx context.Context, kind command.Kind, dedupKey string) error
	// PopDue returns all commands due before now and deletes them in the same
	// transaction; all-or-nothing.
	PopDue(ctx context.Context, now time.Time) ([]command.Command, error)
	Pending(ctx context.Context, kind command.Kind, dedupKey string) (bool, error)
}

type NoticeRepository interface {
	Add(ctx context.Context, message string, at time.Time) error
	List(ctx context.Context) ([]Notice, error)
	Clear(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, userID int, passwordHash, role string) error
	FindByID(ctx context.Context, userID int) (*UserAccount, error)
}

type ReportRepository interface {
	Save(ctx context.Context, kind string, year, month int, data []byte) error
	Find(ctx context.Context, kind string, year, month int) ([]byte, error)
	SubscriberStatusByDay(ctx context.Context, year, month int) ([]StatusPoint, error)
	BorrowStatsByGenre(ctx context.Context, year, month int) ([]GenreBorrowStats, error)
	CountNewSubscribers(ctx context.Context, year, month int) (int, error)
}

// Package fake provides an in-memory UnitOfWork for unit tests. It mirrors
// the repository contracts faithfully enough for usecase and scheduler tests:
// not-found lookups return NOT_FOUND repository errors and duplicate creates
// return DUPLICATE_KEY.
package fake

import (
	"context"
	"sort"
	"strings"
	"time"

	"blib-backend/internal/domain/activity"
	"blib-backend/internal/domain/borrow"
	"blib-backend/internal/domain/catalog"
	"blib-backend/internal/domain/command"
	"blib-backend/internal/domain/order"
	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/infra"
	"blib-backend/internal/usecase/shared"
)

type Store struct {
	Titles      map[int]*catalog.Title
	Copies      map[int]*catalog.Copy
	Subscribers map[int]*subscriber.Subscriber
	Borrows     []*borrow.Borrow
	Orders      []*order.Order
	Activities  []activity.Activity
	Commands    []command.Command
	Notices     []shared.Notice
	Users       map[int]*shared.UserAccount
	Reports     map[string][]byte

	StatusPoints   []shared.StatusPoint
	GenreStats     []shared.GenreBorrowStats
	NewSubscribers int

	nextOrderID    int
	nextActivityID int64
	nextNoticeID   int64
}

func NewStore() *Store {
	return &Store{
		Titles:      make(map[int]*catalog.Title),
		Copies:      make(map[int]*catalog.Copy),
		Subscribers: make(map[int]*subscriber.Subscriber),
		Users:       make(map[int]*shared.UserAccount),
		Reports:     make(map[string][]byte),
	}
}

// Report returns a stored report document, nil when absent.
func (s *Store) Report(kind string, year, month int) []byte {
	return s.Reports[reportKey(kind, year, month)]
}

// AddWaitingOrder seeds a reservation that has no copy yet.
func (s *Store) AddWaitingOrder(subscriberID, titleID int, at time.Time) *order.Order {
	s.nextOrderID++
	o := &order.Order{
		ID:           s.nextOrderID,
		SubscriberID: subscriberID,
		TitleID:      titleID,
		OrderDate:    at,
	}
	s.Orders = append(s.Orders, o)
	return o
}

// AddArrivedOrder seeds a reservation already holding a copy.
func (s *Store) AddArrivedOrder(subscriberID, titleID, copyID int, at time.Time) *order.Order {
	o := s.AddWaitingOrder(subscriberID, titleID, at)
	o.CopyID = &copyID
	arrived := at
	o.ArriveDate = &arrived
	return o
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// UoW runs every callback against the same store; there is no rollback.
type UoW struct {
	Store *Store
}

func NewUoW(s *Store) *UoW {
	return &UoW{Store: s}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &tx{s: u.Store})
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &tx{s: u.Store})
}

type tx struct {
	s *Store
}

func (t *tx) Titles() shared.TitleRepository           { return &titleRepo{s: t.s} }
func (t *tx) Copies() shared.CopyRepository            { return &copyRepo{s: t.s} }
func (t *tx) Subscribers() shared.SubscriberRepository { return &subscriberRepo{s: t.s} }
func (t *tx) Borrows() shared.BorrowRepository         { return &borrowRepo{s: t.s} }
func (t *tx) Orders() shared.OrderRepository           { return &orderRepo{s: t.s} }
func (t *tx) Activities() shared.ActivityRepository    { return &activityRepo{s: t.s} }
func (t *tx) Commands() shared.CommandRepository       { return &commandRepo{s: t.s} }
func (t *tx) Notices() shared.NoticeRepository         { return &noticeRepo{s: t.s} }
func (t *tx) Users() shared.UserRepository             { return &userRepo{s: t.s} }
func (t *tx) Reports() shared.ReportRepository         { return &reportRepo{s: t.s} }

type titleRepo struct{ s *Store }

func (r *titleRepo) FindByID(_ context.Context, id int) (*catalog.Title, error) {
	t, ok := r.s.Titles[id]
	if !ok {
		return nil, notFound("title not found")
	}
	cp := *t
	return &cp, nil
}

func (r *titleRepo) SearchByKeyword(_ context.Context, keyword string) ([]catalog.Title, error) {
	var out []catalog.Title
	for _, t := range r.s.Titles {
		if keyword == "" ||
			strings.Contains(strings.ToLower(t.Name), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(t.Author), strings.ToLower(keyword)) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *titleRepo) AdjustOrderCount(_ context.Context, titleID, delta int) error {
	t, ok := r.s.Titles[titleID]
	if !ok {
		return notFound("title not found")
	}
	t.NumOfOrders += delta
	return nil
}

func (r *titleRepo) BorrowedCopies(_ context.Context, titleID int) (int, error) {
	n := 0
	for _, c := range r.s.Copies {
		if c.TitleID == titleID && c.Borrowed {
			n++
		}
	}
	return n, nil
}

type copyRepo struct{ s *Store }

func (r *copyRepo) FindByID(_ context.Context, id int) (*catalog.Copy, error) {
	c, ok := r.s.Copies[id]
	if !ok {
		return nil, notFound("copy not found")
	}
	cp := *c
	return &cp, nil
}

func (r *copyRepo) FindByTitle(_ context.Context, titleID int) ([]catalog.Copy, error) {
	var out []catalog.Copy
	for _, c := range r.s.Copies {
		if c.TitleID == titleID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *copyRepo) SetBorrowed(_ context.Context, copyID int, borrowed bool) error {
	c, ok := r.s.Copies[copyID]
	if !ok {
		return notFound("copy not found")
	}
	c.Borrowed = borrowed
	return nil
}

type subscriberRepo struct{ s *Store }

func (r *subscriberRepo) FindByID(_ context.Context, id int) (*subscriber.Subscriber, error) {
	sub, ok := r.s.Subscribers[id]
	if !ok {
		return nil, notFound("subscriber not found")
	}
	cp := *sub
	return &cp, nil
}

func (r *subscriberRepo) Create(_ context.Context, sub subscriber.Subscriber) error {
	if _, exists := r.s.Subscribers[sub.ID]; exists {
		return infra.WrapRepoErr("subscriber exists", nil, infra.KindDuplicateKey)
	}
	cp := sub
	r.s.Subscribers[sub.ID] = &cp
	return nil
}

func (r *subscriberRepo) UpdateContact(_ context.Context, id int, email, phone string) error {
	sub, ok := r.s.Subscribers[id]
	if !ok {
		return notFound("subscriber not found")
	}
	sub.Email = email
	sub.Phone = phone
	return nil
}

func (r *subscriberRepo) SetStatus(_ context.Context, id int, status subscriber.Status) error {
	sub, ok := r.s.Subscribers[id]
	if !ok {
		return notFound("subscriber not found")
	}
	sub.Status = status
	return nil
}

func (r *subscriberRepo) CountByStatus(_ context.Context) (int, int, error) {
	active, frozen := 0, 0
	for _, sub := range r.s.Subscribers {
		if sub.Frozen() {
			frozen++
		} else {
			active++
		}
	}
	return active, frozen, nil
}

func (r *subscriberRepo) All(_ context.Context) ([]subscriber.Subscriber, error) {
	var out []subscriber.Subscriber
	for _, sub := range r.s.Subscribers {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type borrowRepo struct{ s *Store }

func (r *borrowRepo) ActiveByCopy(_ context.Context, copyID int) (*borrow.Borrow, error) {
	for _, b := range r.s.Borrows {
		if b.CopyID == copyID && b.Active() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, notFound("no active borrow")
}

func (r *borrowRepo) ActiveBySubscriber(_ context.Context, subscriberID int) ([]borrow.Borrow, error) {
	var out []borrow.Borrow
	for _, b := range r.s.Borrows {
		if b.SubscriberID == subscriberID && b.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *borrowRepo) Create(_ context.Context, b borrow.Borrow) error {
	cp := b
	r.s.Borrows = append(r.s.Borrows, &cp)
	return nil
}

func (r *borrowRepo) UpdateDueDate(_ context.Context, b borrow.Borrow, newDue time.Time) error {
	for _, stored := range r.s.Borrows {
		if stored.CopyID == b.CopyID && stored.Active() {
			stored.DueDate = newDue
			return nil
		}
	}
	return notFound("no active borrow")
}

func (r *borrowRepo) Close(_ context.Context, b borrow.Borrow, returnedOn time.Time) error {
	for _, stored := range r.s.Borrows {
		if stored.CopyID == b.CopyID && stored.Active() {
			t := returnedOn
			stored.DateOfReturn = &t
			return nil
		}
	}
	return notFound("no active borrow")
}

func (r *borrowRepo) NextReturnDate(_ context.Context, titleID int) (*time.Time, error) {
	var soonest *time.Time
	for _, b := range r.s.Borrows {
		if !b.Active() {
			continue
		}
		c, ok := r.s.Copies[b.CopyID]
		if !ok || c.TitleID != titleID {
			continue
		}
		if soonest == nil || b.DueDate.Before(*soonest) {
			due := b.DueDate
			soonest = &due
		}
	}
	return soonest, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) ActiveBySubscriber(_ context.Context, subscriberID int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.s.Orders {
		if o.SubscriberID == subscriberID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *orderRepo) ByCopy(_ context.Context, copyID int) (*order.Order, error) {
	for _, o := range r.s.Orders {
		if o.CopyID != nil && *o.CopyID == copyID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, notFound("no order for copy")
}

func (r *orderRepo) OldestWaitingByTitle(_ context.Context, titleID int) (*order.Order, error) {
	var oldest *order.Order
	for _, o := range r.s.Orders {
		if o.TitleID != titleID || !o.Waiting() {
			continue
		}
		if oldest == nil || o.OrderDate.Before(oldest.OrderDate) {
			oldest = o
		}
	}
	if oldest == nil {
		return nil, notFound("no waiting order")
	}
	cp := *oldest
	return &cp, nil
}

func (r *orderRepo) Create(_ context.Context, subscriberID, titleID int, at time.Time) error {
	r.s.nextOrderID++
	r.s.Orders = append(r.s.Orders, &order.Order{
		ID:           r.s.nextOrderID,
		SubscriberID: subscriberID,
		TitleID:      titleID,
		OrderDate:    at,
	})
	return nil
}

func (r *orderRepo) AssignCopy(_ context.Context, orderID, copyID int, arriveDate time.Time) error {
	for _, o := range r.s.Orders {
		if o.ID == orderID {
			id := copyID
			at := arriveDate
			o.CopyID = &id
			o.ArriveDate = &at
			return nil
		}
	}
	return notFound("order not found")
}

func (r *orderRepo) DeleteByCopy(_ context.Context, copyID int) (*order.Order, error) {
	for i, o := range r.s.Orders {
		if o.CopyID != nil && *o.CopyID == copyID {
			deleted := *o
			r.s.Orders = append(r.s.Orders[:i], r.s.Orders[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, notFound("no order for copy")
}

type activityRepo struct{ s *Store }

func (r *activityRepo) Append(_ context.Context, a activity.Activity) error {
	r.s.nextActivityID++
	a.ID = r.s.nextActivityID
	r.s.Activities = append(r.s.Activities, a)
	return nil
}

func (r *activityRepo) BySubscriber(_ context.Context, subscriberID int) ([]activity.Activity, error) {
	var out []activity.Activity
	for _, a := range r.s.Activities {
		if a.SubscriberID == subscriberID {
			out = append(out, a)
		}
	}
	return out, nil
}

type commandRepo struct{ s *Store }

func (r *commandRepo) Enqueue(_ context.Context, cmd command.Command) error {
	r.s.Commands = append(r.s.Commands, cmd)
	return nil
}

func (r *commandRepo) Cancel(_ context.Context, kind command.Kind, dedupKey string) error {
	kept := r.s.Commands[:0]
	for _, c := range r.s.Commands {
		if !(c.Kind == kind && c.DedupKey == dedupKey) {
			kept = append(kept, c)
		}
	}
	r.s.Commands = kept
	return nil
}

func (r *commandRepo) PopDue(_ context.Context, now time.Time) ([]command.Command, error) {
	var due []command.Command
	kept := r.s.Commands[:0]
	for _, c := range r.s.Commands {
		if c.DueAt.Before(now) {
			due = append(due, c)
		} else {
			kept = append(kept, c)
		}
	}
	r.s.Commands = kept
	sort.Slice(due, func(i, j int) bool { return due[i].DueAt.Before(due[j].DueAt) })
	return due, nil
}

func (r *commandRepo) Pending(_ context.Context, kind command.Kind, dedupKey string) (bool, error) {
	for _, c := range r.s.Commands {
		if c.Kind == kind && c.DedupKey == dedupKey {
			return true, nil
		}
	}
	return false, nil
}

type noticeRepo struct{ s *Store }

func (r *noticeRepo) Add(_ context.Context, message string, at time.Time) error {
	r.s.nextNoticeID++
	r.s.Notices = append(r.s.Notices, shared.Notice{
		ID:        r.s.nextNoticeID,
		Message:   message,
		CreatedAt: at,
	})
	return nil
}

func (r *noticeRepo) List(_ context.Context) ([]shared.Notice, error) {
	out := make([]shared.Notice, len(r.s.Notices))
	copy(out, r.s.Notices)
	return out, nil
}

func (r *noticeRepo) Clear(_ context.Context) error {
	r.s.Notices = nil
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, userID int, passwordHash, role string) error {
	if _, exists := r.s.Users[userID]; exists {
		return infra.WrapRepoErr("user exists", nil, infra.KindDuplicateKey)
	}
	r.s.Users[userID] = &shared.UserAccount{
		UserID:       userID,
		PasswordHash: passwordHash,
		Role:         role,
	}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, userID int) (*shared.UserAccount, error) {
	u, ok := r.s.Users[userID]
	if !ok {
		return nil, notFound("user not found")
	}
	cp := *u
	return &cp, nil
}

type reportRepo struct{ s *Store }

func reportKey(kind string, year, month int) string {
	return kind + "/" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (r *reportRepo) Save(_ context.Context, kind string, year, month int, data []byte) error {
	r.s.Reports[reportKey(kind, year, month)] = data
	return nil
}

func (r *reportRepo) Find(_ context.Context, kind string, year, month int) ([]byte, error) {
	data, ok := r.s.Reports[reportKey(kind, year, month)]
	if !ok {
		return nil, notFound("report not found")
	}
	return data, nil
}

func (r *reportRepo) SubscriberStatusByDay(_ context.Context, _, _ int) ([]shared.StatusPoint, error) {
	return r.s.StatusPoints, nil
}

func (r *reportRepo) BorrowStatsByGenre(_ context.Context, _, _ int) ([]shared.GenreBorrowStats, error) {
	return r.s.GenreStats, nil
}

func (r *reportRepo) CountNewSubscribers(_ context.Context, _, _ int) (int, error) {
	return r.s.NewSubscribers, nil
}

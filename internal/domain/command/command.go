package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"blib-backend/internal/pkg/errs"
)

// Kind discriminates the deferred-command payload union.
type Kind string

const (
	KindSendReminder    Kind = "send-reminder"
	KindUnfreeze        Kind = "unfreeze"
	KindCancelOrder     Kind = "cancel-order"
	KindGenerateReports Kind = "generate-reports"
)

var ErrUnknownKind = errs.New("unknown command kind")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Command is a durable deferred action. Two commands of the same kind and
// dedup key supersede one another: callers cancel by (kind, key) before
// scheduling a replacement.
type Command struct {
	ID       uuid.UUID
	Kind     Kind
	Payload  []byte
	DueAt    time.Time
	DedupKey string
}

type ReminderPayload struct {
	SubscriberID int    `json:"subscriber_id"`
	CopyID       int    `json:"copy_id"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

type UnfreezePayload struct {
	SubscriberID int `json:"subscriber_id"`
}

type CancelOrderPayload struct {
	CopyID int `json:"copy_id"`
}

type GenerateReportsPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func NewReminder(dueAt time.Time, p ReminderPayload) (Command, error) {
	return build(KindSendReminder, dueAt, ReminderKey(p.SubscriberID, p.CopyID), p)
}

func NewUnfreeze(dueAt time.Time, p UnfreezePayload) (Command, error) {
	return build(KindUnfreeze, dueAt, UnfreezeKey(p.SubscriberID), p)
}

func NewCancelOrder(dueAt time.Time, p CancelOrderPayload) (Command, error) {
	return build(KindCancelOrder, dueAt, CancelOrderKey(p.CopyID), p)
}

func NewGenerateReports(dueAt time.Time, p GenerateReportsPayload) (Command, error) {
	return build(KindGenerateReports, dueAt, "", p)
}

func build(kind Kind, dueAt time.Time, key string, payload any) (Command, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Command{}, errs.Wrap(err, "failed to encode command payload")
	}
	return Command{
		ID:       uuid.New(),
		Kind:     kind,
		Payload:  raw,
		DueAt:    dueAt,
		DedupKey: key,
	}, nil
}

// Dedup keys. A reminder is identified by the borrow it reminds about, an
// unfreeze by the subscriber, a cancel-order by the held copy.

func ReminderKey(subscriberID, copyID int) string {
	return fmt.Sprintf("%d;%d", subscriberID, copyID)
}

func UnfreezeKey(subscriberID int) string {
	return fmt.Sprintf("%d", subscriberID)
}

func CancelOrderKey(copyID int) string {
	return fmt.Sprintf("%d", copyID)
}

func (c Command) Reminder() (ReminderPayload, error) {
	var p ReminderPayload
	return p, c.decode(KindSendReminder, &p)
}

func (c Command) Unfreeze() (UnfreezePayload, error) {
	var p UnfreezePayload
	return p, c.decode(KindUnfreeze, &p)
}

func (c Command) CancelOrder() (CancelOrderPayload, error) {
	var p CancelOrderPayload
	return p, c.decode(KindCancelOrder, &p)
}

func (c Command) GenerateReports() (GenerateReportsPayload, error) {
	var p GenerateReportsPayload
	return p, c.decode(KindGenerateReports, &p)
}

func (c Command) decode(want Kind, into any) error {
	if c.Kind != want {
		return errs.Mark(errs.Newf("payload is %q, not %q", c.Kind, want), ErrUnknownKind)
	}
	if err := json.Unmarshal(c.Payload, into); err != nil {
		return errs.Wrap(err, "failed to decode command payload")
	}
	return nil
}

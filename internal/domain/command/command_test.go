//go:build unit

package command_test

import (
	"testing"
	"time"

	"blib-backend/internal/domain/command"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderRoundTrip(t *testing.T) {
	due := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	cmd, err := command.NewReminder(due, command.ReminderPayload{
		SubscriberID: 42,
		CopyID:       7,
		Subject:      `"Dune" is due tomorrow`,
		Body:         "please return or extend",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, cmd.ID)
	assert.Equal(t, command.KindSendReminder, cmd.Kind)
	assert.Equal(t, due, cmd.DueAt)
	assert.Equal(t, "42;7", cmd.DedupKey)

	p, err := cmd.Reminder()
	require.NoError(t, err)
	assert.Equal(t, 42, p.SubscriberID)
	assert.Equal(t, 7, p.CopyID)
	assert.Equal(t, `"Dune" is due tomorrow`, p.Subject)
}

func TestUnfreezeRoundTrip(t *testing.T) {
	due := time.Date(2024, time.April, 21, 0, 0, 0, 0, time.UTC)
	cmd, err := command.NewUnfreeze(due, command.UnfreezePayload{SubscriberID: 42})
	require.NoError(t, err)

	assert.Equal(t, command.KindUnfreeze, cmd.Kind)
	assert.Equal(t, "42", cmd.DedupKey)

	p, err := cmd.Unfreeze()
	require.NoError(t, err)
	assert.Equal(t, 42, p.SubscriberID)
}

func TestCancelOrderRoundTrip(t *testing.T) {
	due := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)
	cmd, err := command.NewCancelOrder(due, command.CancelOrderPayload{CopyID: 7})
	require.NoError(t, err)

	assert.Equal(t, command.KindCancelOrder, cmd.Kind)
	assert.Equal(t, "7", cmd.DedupKey)

	p, err := cmd.CancelOrder()
	require.NoError(t, err)
	assert.Equal(t, 7, p.CopyID)
}

func TestGenerateReportsRoundTrip(t *testing.T) {
	due := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	cmd, err := command.NewGenerateReports(due, command.GenerateReportsPayload{Year: 2024, Month: 3})
	require.NoError(t, err)

	assert.Equal(t, command.KindGenerateReports, cmd.Kind)
	assert.Empty(t, cmd.DedupKey, "generation is a singleton chain")

	p, err := cmd.GenerateReports()
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, 3, p.Month)
}

func TestDecodeWrongKind(t *testing.T) {
	cmd, err := command.NewUnfreeze(time.Now(), command.UnfreezePayload{SubscriberID: 1})
	require.NoError(t, err)

	_, err = cmd.Reminder()
	assert.ErrorIs(t, err, command.ErrUnknownKind)
}

package refundorderlines_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/features/command/refundorderlines"
	"github.com/commercekit/commerce-core-go/payment"
	"github.com/commercekit/commerce-core-go/shell"
)

func Test_CommandHandler_Handle_AppendsOrderRefunded(t *testing.T) {
	// arrange
	order := givenOrder(t)
	log := newFakeEventLog(t)
	handler := givenCommandHandler(t, log, order)

	command := refundorderlines.BuildCommand(
		order.ID,
		[]payment.OrderLineRefund{{OrderLineID: order.Lines[0].ID, Quantity: 1}},
		nil,
		false,
		decimal.RequireFromString("35.00"),
		time.Now(),
	)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	require.Len(t, log.appended, 1)
	assert.Equal(t, core.OrderRefundedEventType, log.appended[0].EventType)
}

func Test_CommandHandler_Handle_EmptyRequestAppendsNothing(t *testing.T) {
	// arrange
	order := givenOrder(t)
	log := newFakeEventLog(t)
	handler := givenCommandHandler(t, log, order)

	command := refundorderlines.BuildCommand(order.ID, nil, nil, false, decimal.Zero, time.Now())

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Empty(t, log.appended)
}

func Test_CommandHandler_Handle_BusinessRejectionAppendsRejectedEvent(t *testing.T) {
	// arrange - request more than was ordered
	order := givenOrder(t)
	log := newFakeEventLog(t)
	handler := givenCommandHandler(t, log, order)

	command := refundorderlines.BuildCommand(
		order.ID,
		[]payment.OrderLineRefund{{OrderLineID: order.Lines[0].ID, Quantity: 5}},
		nil,
		false,
		decimal.RequireFromString("175.00"),
		time.Now(),
	)

	// act
	_, err := handler.Handle(context.Background(), command)

	// assert - the rejection is recorded in the log AND surfaced as an error
	assert.ErrorIs(t, err, refundorderlines.ErrExceedsRefundableQuantity)
	require.Len(t, log.appended, 1)
	assert.Equal(t, core.OrderRefundRejectedEventType, log.appended[0].EventType)
}

func Test_CommandHandler_Handle_RetriesOnConcurrencyConflict(t *testing.T) {
	// arrange - the first append loses the race, the second succeeds
	order := givenOrder(t)
	log := newFakeEventLog(t)
	log.appendConflicts = 1
	handler := givenCommandHandler(t, log, order)

	command := refundorderlines.BuildCommand(
		order.ID,
		[]payment.OrderLineRefund{{OrderLineID: order.Lines[0].ID, Quantity: 1}},
		nil,
		false,
		decimal.RequireFromString("35.00"),
		time.Now(),
	)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	require.Len(t, log.appended, 1)
}

func Test_CommandHandler_Handle_OrderLoadFailureFailsFast(t *testing.T) {
	// arrange
	loadErr := errors.New("order lookup failed")
	log := newFakeEventLog(t)
	handler, err := refundorderlines.NewCommandHandler(log, failingOrderSource{err: loadErr})
	require.NoError(t, err)

	command := refundorderlines.BuildCommand(uuid.New(), nil, nil, true, decimal.Zero, time.Now())

	// act
	_, err = handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, loadErr)
	assert.Empty(t, log.appended)
}

// Test helper functions with t.Helper() for better error reporting

func givenCommandHandler(
	t *testing.T,
	log *fakeEventLog,
	order payment.OrderSnapshot,
) refundorderlines.CommandHandler {

	t.Helper()

	handler, err := refundorderlines.NewCommandHandler(
		log,
		fakeOrderSource{order: order},
		refundorderlines.WithRetryOptions(
			shell.WithBaseDelay(time.Millisecond),
			shell.WithJitterFactor(0),
		),
	)
	require.NoError(t, err)

	return handler
}

/*** In-memory fakes ***/

type fakeEventLog struct {
	t               *testing.T
	entries         eventlog.Entries
	appended        eventlog.Entries
	appendConflicts int
}

func newFakeEventLog(t *testing.T) *fakeEventLog {
	t.Helper()

	return &fakeEventLog{t: t}
}

func (f *fakeEventLog) Query(_ context.Context, _ eventlog.Selector) (
	eventlog.Entries,
	eventlog.MaxSequenceNumberUint,
	error,
) {

	return f.entries, eventlog.MaxSequenceNumberUint(len(f.entries)), nil
}

func (f *fakeEventLog) Append(
	_ context.Context,
	_ eventlog.Selector,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
	entry eventlog.Entry,
	additionalEntries ...eventlog.Entry,
) error {

	if f.appendConflicts > 0 {
		f.appendConflicts--
		return eventlog.ErrConcurrencyConflict
	}

	if expectedMaxSequenceNumber != eventlog.MaxSequenceNumberUint(len(f.entries)) {
		return eventlog.ErrConcurrencyConflict
	}

	f.entries = append(f.entries, entry)
	f.entries = append(f.entries, additionalEntries...)
	f.appended = append(f.appended, entry)
	f.appended = append(f.appended, additionalEntries...)

	return nil
}

type fakeOrderSource struct {
	order payment.OrderSnapshot
}

func (f fakeOrderSource) LoadOrder(_ context.Context, _ uuid.UUID) (payment.OrderSnapshot, error) {
	return f.order, nil
}

type failingOrderSource struct {
	err error
}

func (f failingOrderSource) LoadOrder(_ context.Context, _ uuid.UUID) (payment.OrderSnapshot, error) {
	return payment.OrderSnapshot{}, f.err
}

package refundorderlines

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/payment"
	"github.com/commercekit/commerce-core-go/shell"
)

// EventLog defines the interface needed by the CommandHandler for event log operations.
type EventLog interface {
	Query(ctx context.Context, selector eventlog.Selector) (
		eventlog.Entries,
		eventlog.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		selector eventlog.Selector,
		expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
		entry eventlog.Entry,
		additionalEntries ...eventlog.Entry,
	) error
}

// OrderSource loads the read-only order snapshot the refund is checked against.
type OrderSource interface {
	LoadOrder(ctx context.Context, orderID uuid.UUID) (payment.OrderSnapshot, error)
}

// CommandHandler orchestrates the complete command processing workflow.
// It handles infrastructure concerns like event log interactions, retry, and
// observability instrumentation, and delegates business logic to the pure Decide function.
type CommandHandler struct {
	eventLog         EventLog
	orders           OrderSource
	retryOptions     []shell.RetryOption
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided dependencies and options.
func NewCommandHandler(eventLog EventLog, orders OrderSource, opts ...Option) (CommandHandler, error) {
	h := CommandHandler{
		eventLog: eventLog,
		orders:   orders,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return CommandHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete command processing workflow with retry logic.
// It queries the current refund history, delegates business logic to the core Decide
// function, and appends the resulting event with the queried max sequence number.
// Returns HandlerResult containing business outcomes and execution metadata.
//
// Resilience: Implements exponential backoff retry logic for concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	var outcome string

	retryMetrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(ctx, func(retryCtx context.Context) error {
		executedOutcome, execErr := h.executeCommand(retryCtx, command)
		outcome = executedOutcome

		return execErr
	}, h.retryOptions...)

	duration := time.Since(commandStart)

	if err != nil {
		h.recordCommandError(ctx, err, duration, span)

		return shell.NewErrorResult(retryMetrics), err
	}

	if outcome == shell.StatusIdempotent {
		h.recordCommandSuccess(ctx, shell.StatusIdempotent, duration, span)

		return shell.NewIdempotentResult(retryMetrics), nil
	}

	h.recordCommandSuccess(ctx, shell.StatusSuccess, duration, span)

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (string, error) {
	order, err := h.orders.LoadOrder(ctx, command.OrderID)
	if err != nil {
		return shell.StatusError, err
	}

	selector := BuildLogSelector(command.OrderID)

	ctx = eventlog.WithStrongConsistency(ctx)

	// Query phase
	entries, maxSequenceNumber, err := h.eventLog.Query(ctx, selector)
	if err != nil {
		return shell.StatusError, err
	}

	// Unmarshal phase
	history, err := shell.DomainEventsFrom(entries)
	if err != nil {
		return shell.StatusError, err
	}

	// Business logic phase - delegate to pure core function
	result := Decide(order, history, command)

	if !result.HasEventToAppend() {
		return result.Outcome, nil // Idempotent success - no event to append
	}

	// Append phase - single event to append
	uid := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uid, uid, uid)

	entry, marshalErr := shell.EntryFrom(result.Event, eventMetadata)
	if marshalErr != nil {
		return shell.StatusError, marshalErr
	}

	appendErr := h.eventLog.Append(ctx, selector, maxSequenceNumber, entry)
	if appendErr != nil {
		return shell.StatusError, appendErr
	}

	return result.Outcome, result.HasError()
}

/*** Command Handler Options and helper methods for observability ***/

// Option defines a functional option for configuring CommandHandler.
type Option func(*CommandHandler) error

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(retryOptions ...shell.RetryOption) Option {
	return func(h *CommandHandler) error {
		h.retryOptions = retryOptions
		return nil
	}
}

// WithMetrics sets the metrics collector for the CommandHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *CommandHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the CommandHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *CommandHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the CommandHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the CommandHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *CommandHandler) error {
		h.logger = logger
		return nil
	}
}

// recordCommandSuccess records successful command execution with observability.
func (h CommandHandler) recordCommandSuccess(ctx context.Context, businessOutcome string, duration time.Duration, span shell.SpanContext) {
	shell.RecordCommandMetrics(ctx, h.metricsCollector, commandType, businessOutcome, duration)
	shell.FinishCommandSpan(h.tracingCollector, span, businessOutcome, duration, nil)
	shell.LogCommandSuccess(ctx, h.logger, h.contextualLogger, commandType, businessOutcome, duration)
}

// recordCommandError records failed command execution with observability.
func (h CommandHandler) recordCommandError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusError

	switch {
	case shell.IsCancellationError(err):
		status = shell.StatusCanceled
	case shell.IsTimeoutError(err):
		status = shell.StatusTimeout
	case shell.IsConcurrencyConflictError(err):
		status = shell.StatusConcurrencyConflict
	}

	shell.RecordCommandMetrics(ctx, h.metricsCollector, commandType, status, duration)
	shell.FinishCommandSpan(h.tracingCollector, span, status, duration, err)
	shell.LogCommandError(ctx, h.logger, h.contextualLogger, commandType, err)
}

package refundablequantities

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/payment"
	"github.com/commercekit/commerce-core-go/shell"
)

// EventLog defines the interface needed by the QueryHandler for event log operations.
type EventLog interface {
	Query(ctx context.Context, selector eventlog.Selector) (
		eventlog.Entries,
		eventlog.MaxSequenceNumberUint,
		error,
	)
}

// OrderSource loads the read-only order snapshot the history is folded against.
type OrderSource interface {
	LoadOrder(ctx context.Context, orderID uuid.UUID) (payment.OrderSnapshot, error)
}

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like event log interactions and observability
// instrumentation, and delegates projection logic to the pure core function.
type QueryHandler struct {
	eventLog         EventLog
	orders           OrderSource
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided dependencies and options.
func NewQueryHandler(eventLog EventLog, orders OrderSource, opts ...Option) (QueryHandler, error) {
	h := QueryHandler{
		eventLog: eventLog,
		orders:   orders,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return QueryHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete query processing workflow: Query -> Project.
// It queries the order's refund history, delegates projection logic to the core
// function, and instruments the operation with comprehensive observability.
func (h QueryHandler) Handle(ctx context.Context, query Query) (RefundableQuantities, error) {
	// Start query handler instrumentation
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	order, err := h.orders.LoadOrder(ctx, query.OrderID)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return RefundableQuantities{}, err
	}

	selector := BuildLogSelector(query.OrderID)

	// Pure query handlers can tolerate slightly stale data in exchange for better
	// performance and reduced primary database load
	ctx = eventlog.WithEventualConsistency(ctx)

	// Query phase
	queryPhaseStart := time.Now()
	entries, _, err := h.eventLog.Query(ctx, selector)
	queryPhaseDuration := time.Since(queryPhaseStart)
	if err != nil {
		h.recordComponentTiming(ctx, shell.ComponentQuery, shell.StatusError, queryPhaseDuration)
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return RefundableQuantities{}, err
	}
	h.recordComponentTiming(ctx, shell.ComponentQuery, shell.StatusSuccess, queryPhaseDuration)

	// Unmarshal phase
	unmarshalStart := time.Now()
	history, err := shell.DomainEventsFrom(entries)
	unmarshalDuration := time.Since(unmarshalStart)
	if err != nil {
		h.recordComponentTiming(ctx, shell.ComponentUnmarshal, shell.StatusError, unmarshalDuration)
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return RefundableQuantities{}, err
	}
	h.recordComponentTiming(ctx, shell.ComponentUnmarshal, shell.StatusSuccess, unmarshalDuration)

	// Projection phase - delegate to a pure core function
	projectionStart := time.Now()
	result := ProjectRefundableQuantities(order, history, query)
	projectionDuration := time.Since(projectionStart)
	h.recordComponentTiming(ctx, shell.ComponentProjection, shell.StatusSuccess, projectionDuration)

	h.recordQuerySuccess(ctx, time.Since(queryStart), span)

	return result, nil
}

/*** Query Handler Options and helper methods for observability ***/

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler) error

// WithMetrics sets the metrics collector for the QueryHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the QueryHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the QueryHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the QueryHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) error {
		h.logger = logger
		return nil
	}
}

// recordQuerySuccess records successful query execution with observability.
func (h QueryHandler) recordQuerySuccess(ctx context.Context, duration time.Duration, span shell.SpanContext) {
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, shell.StatusSuccess, duration)
}

// recordQueryError records failed query execution with observability.
func (h QueryHandler) recordQueryError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusError

	switch {
	case shell.IsCancellationError(err):
		status = shell.StatusCanceled
	case shell.IsTimeoutError(err):
		status = shell.StatusTimeout
	}

	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, status, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, status, duration, err)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err)
}

// recordComponentTiming records component-level timing metrics.
func (h QueryHandler) recordComponentTiming(ctx context.Context, component string, status string, duration time.Duration) {
	shell.RecordQueryComponentDuration(ctx, h.metricsCollector, queryType, component, status, duration)
}

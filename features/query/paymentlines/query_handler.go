package paymentlines

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/payment"
	"github.com/commercekit/commerce-core-go/shell"
)

// PaymentSource loads the payable state and the payment info the lines are built for.
type PaymentSource interface {
	LoadPayment(ctx context.Context, paymentID uuid.UUID) (payment.Payable, payment.PaymentInfo, error)
}

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like loading the payable state and observability
// instrumentation, and delegates the line building to the pure core function.
type QueryHandler struct {
	payments         PaymentSource
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided PaymentSource dependency and options.
func NewQueryHandler(payments PaymentSource, opts ...Option) (QueryHandler, error) {
	h := QueryHandler{
		payments: payments,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return QueryHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete query processing workflow: Load -> Project.
// It loads the payable state, delegates the line building to the core function,
// and instruments the operation with comprehensive observability.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PaymentLines, error) {
	// Start query handler instrumentation
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	// Load phase
	loadPhaseStart := time.Now()
	payable, info, err := h.payments.LoadPayment(ctx, query.PaymentID)
	loadPhaseDuration := time.Since(loadPhaseStart)
	if err != nil {
		h.recordComponentTiming(ctx, shell.ComponentQuery, shell.StatusError, loadPhaseDuration)
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return PaymentLines{}, err
	}
	h.recordComponentTiming(ctx, shell.ComponentQuery, shell.StatusSuccess, loadPhaseDuration)

	// Projection phase - delegate to a pure core function
	projectionStart := time.Now()
	result := ProjectPaymentLines(query.PaymentID, payable, info)
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

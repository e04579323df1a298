package createpromotionrule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/discount"
	"github.com/commercekit/commerce-core-go/eventlog"
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

// PromotionSource loads the promotion snapshot the rule is validated against.
type PromotionSource interface {
	LoadPromotion(ctx context.Context, promotionID uuid.UUID) (discount.PromotionSnapshot, error)
}

// RuleRepository persists validated rules and maintains the promotion's sale marker.
type RuleRepository interface {
	SaveRule(ctx context.Context, rule discount.PreparedRule) error
	ClearConvertedFromSale(ctx context.Context, promotionID uuid.UUID) error
}

// RecalculationScheduler schedules the discounted-price recomputation that catalogue
// rules require after they are persisted.
type RecalculationScheduler interface {
	ScheduleRuleRecalculation(ctx context.Context, rule discount.PreparedRule) error
}

// CommandHandler orchestrates the complete command processing workflow.
// It loads the promotion, delegates validation to the pure discount core, persists
// the rule through the repository ports, and appends the PromotionRuleCreated event.
type CommandHandler struct {
	eventLog         EventLog
	promotions       PromotionSource
	rules            RuleRepository
	scheduler        RecalculationScheduler
	limits           discount.Limits
	retryOptions     []shell.RetryOption
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided dependencies and options.
func NewCommandHandler(
	eventLog EventLog,
	promotions PromotionSource,
	rules RuleRepository,
	scheduler RecalculationScheduler,
	limits discount.Limits,
	opts ...Option,
) (CommandHandler, error) {

	h := CommandHandler{
		eventLog:   eventLog,
		promotions: promotions,
		rules:      rules,
		scheduler:  scheduler,
		limits:     limits,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return CommandHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete command processing workflow:
// Load -> Validate -> Persist -> Append -> Schedule.
// On validation failure it returns a ValidationError and persists nothing.
// The event append is retried on concurrency conflicts with exponential backoff.
func (h CommandHandler) Handle(ctx context.Context, command Command) (discount.PreparedRule, shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	promotion, err := h.promotions.LoadPromotion(ctx, command.PromotionID)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)

		return discount.PreparedRule{}, shell.HandlerResult{}, err
	}

	// Validation phase - delegate to pure core function
	rule, fieldErrors := discount.ValidateAndPrepare(command.Rule, promotion, h.limits)
	if len(fieldErrors) > 0 {
		validationErr := ValidationError{FieldErrors: fieldErrors}
		h.recordCommandError(ctx, validationErr, time.Since(commandStart), span)

		return discount.PreparedRule{}, shell.HandlerResult{}, validationErr
	}

	// Persistence phase
	if saveErr := h.rules.SaveRule(ctx, rule); saveErr != nil {
		h.recordCommandError(ctx, saveErr, time.Since(commandStart), span)

		return discount.PreparedRule{}, shell.HandlerResult{}, saveErr
	}

	if promotion.ConvertedFromSale {
		if clearErr := h.rules.ClearConvertedFromSale(ctx, command.PromotionID); clearErr != nil {
			h.recordCommandError(ctx, clearErr, time.Since(commandStart), span)

			return discount.PreparedRule{}, shell.HandlerResult{}, clearErr
		}
	}

	// Append phase - retried on concurrency conflicts
	retryMetrics, appendErr := shell.RetryWithExponentialBackoffCollectingMetrics(ctx, func(retryCtx context.Context) error {
		return h.appendRuleCreated(retryCtx, command, rule)
	}, h.retryOptions...)

	duration := time.Since(commandStart)

	if appendErr != nil {
		h.recordCommandError(ctx, appendErr, duration, span)

		return discount.PreparedRule{}, shell.NewErrorResult(retryMetrics), appendErr
	}

	// Scheduling phase - fire-and-forget after persistence, only for catalogue rules
	if rule.Family == discount.FamilyCatalogue {
		if scheduleErr := h.scheduler.ScheduleRuleRecalculation(ctx, rule); scheduleErr != nil {
			h.logScheduleWarning(ctx, scheduleErr)
		}
	}

	h.recordCommandSuccess(ctx, shell.StatusSuccess, duration, span)

	return rule, shell.NewSuccessResult(retryMetrics), nil
}

// appendRuleCreated appends the PromotionRuleCreated event guarded by the
// promotion's current max sequence number.
func (h CommandHandler) appendRuleCreated(ctx context.Context, command Command, rule discount.PreparedRule) error {
	selector := BuildLogSelector(command.PromotionID)

	ctx = eventlog.WithStrongConsistency(ctx)

	_, maxSequenceNumber, err := h.eventLog.Query(ctx, selector)
	if err != nil {
		return err
	}

	event := core.BuildPromotionRuleCreated(command.PromotionID, rule.ID, rule.Name, rule.Family, command.OccurredAt)

	uid := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uid, uid, uid)

	entry, marshalErr := shell.EntryFrom(event, eventMetadata)
	if marshalErr != nil {
		return marshalErr
	}

	return h.eventLog.Append(ctx, selector, maxSequenceNumber, entry)
}

// BuildLogSelector creates the selector for querying all events
// related to the specified promotion which are relevant for this feature/use-case.
func BuildLogSelector(promotionID uuid.UUID) eventlog.Selector {
	return eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf(
			core.PromotionRuleCreatedEventType,
		).
		AndAnyScopeOf(
			eventlog.S("PromotionID", promotionID.String()),
		).
		Finalize()
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

// logScheduleWarning reports a failed recalculation scheduling without failing the command.
func (h CommandHandler) logScheduleWarning(ctx context.Context, err error) {
	if h.contextualLogger != nil {
		h.contextualLogger.WarnContext(ctx, "scheduling price recalculation failed", shell.LogAttrError, err.Error())

		return
	}

	if h.logger != nil {
		h.logger.Warn("scheduling price recalculation failed", shell.LogAttrError, err.Error())
	}
}

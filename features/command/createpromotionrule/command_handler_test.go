package createpromotionrule_test

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
	"github.com/commercekit/commerce-core-go/discount"
	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/features/command/createpromotionrule"
	"github.com/commercekit/commerce-core-go/shell"
)

func Test_CommandHandler_Handle_CatalogueRule(t *testing.T) {
	// arrange
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone}
	deps := newFakeDependencies(t, promotion)
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, givenCatalogueRuleInput(t), time.Now())

	// act
	rule, result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, discount.FamilyCatalogue, rule.Family)

	// the rule is persisted, the event appended, and the recalculation scheduled
	require.Len(t, deps.rules.savedRules, 1)
	assert.Equal(t, rule.ID, deps.rules.savedRules[0].ID)
	require.Len(t, deps.log.appended, 1)
	assert.Equal(t, core.PromotionRuleCreatedEventType, deps.log.appended[0].EventType)
	require.Len(t, deps.scheduler.scheduledRules, 1)
	assert.Equal(t, rule.ID, deps.scheduler.scheduledRules[0].ID)
	assert.Empty(t, deps.rules.clearedPromotions, "The sale marker should only be cleared when set")
}

func Test_CommandHandler_Handle_OrderRuleSkipsRecalculation(t *testing.T) {
	// arrange
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone}
	deps := newFakeDependencies(t, promotion)
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, givenOrderRuleInput(t), time.Now())

	// act
	rule, _, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, discount.FamilyOrder, rule.Family)
	assert.Empty(t, deps.scheduler.scheduledRules, "Only catalogue rules trigger price recalculation")
}

func Test_CommandHandler_Handle_ValidationFailurePersistsNothing(t *testing.T) {
	// arrange - input without predicates or reward
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone}
	deps := newFakeDependencies(t, promotion)
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, discount.RuleInput{Name: "broken"}, time.Now())

	// act
	_, _, err := handler.Handle(context.Background(), command)

	// assert
	var validationErr createpromotionrule.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.FieldErrors)

	assert.Empty(t, deps.rules.savedRules)
	assert.Empty(t, deps.log.appended)
	assert.Empty(t, deps.scheduler.scheduledRules)
}

func Test_CommandHandler_Handle_ClearsConvertedFromSaleMarker(t *testing.T) {
	// arrange
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone, ConvertedFromSale: true}
	deps := newFakeDependencies(t, promotion)
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, givenCatalogueRuleInput(t), time.Now())

	// act
	_, _, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	require.Len(t, deps.rules.clearedPromotions, 1)
	assert.Equal(t, promotion.ID, deps.rules.clearedPromotions[0])
}

func Test_CommandHandler_Handle_RetriesAppendOnConcurrencyConflict(t *testing.T) {
	// arrange
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone}
	deps := newFakeDependencies(t, promotion)
	deps.log.appendConflicts = 1
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, givenCatalogueRuleInput(t), time.Now())

	// act
	_, result, err := handler.Handle(context.Background(), command)

	// assert - the rule is saved once, only the append is retried
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Len(t, deps.rules.savedRules, 1)
	assert.Len(t, deps.log.appended, 1)
}

func Test_CommandHandler_Handle_SchedulingFailureDoesNotFailTheCommand(t *testing.T) {
	// arrange
	promotion := discount.PromotionSnapshot{ID: uuid.New(), Family: discount.FamilyNone}
	deps := newFakeDependencies(t, promotion)
	deps.scheduler.err = errors.New("queue unavailable")
	handler := givenCommandHandler(t, deps)

	command := createpromotionrule.BuildCommand(promotion.ID, givenCatalogueRuleInput(t), time.Now())

	// act
	rule, _, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rule.ID)
	assert.Len(t, deps.log.appended, 1)
}

// Test helper functions with t.Helper() for better error reporting

type fakeDependencies struct {
	log        *fakeEventLog
	promotions fakePromotionSource
	rules      *fakeRuleRepository
	scheduler  *fakeScheduler
}

func newFakeDependencies(t *testing.T, promotion discount.PromotionSnapshot) fakeDependencies {
	t.Helper()

	return fakeDependencies{
		log:        &fakeEventLog{},
		promotions: fakePromotionSource{promotion: promotion},
		rules:      &fakeRuleRepository{},
		scheduler:  &fakeScheduler{},
	}
}

func givenCommandHandler(t *testing.T, deps fakeDependencies) createpromotionrule.CommandHandler {
	t.Helper()

	handler, err := createpromotionrule.NewCommandHandler(
		deps.log,
		deps.promotions,
		deps.rules,
		deps.scheduler,
		discount.DefaultLimits(),
		createpromotionrule.WithRetryOptions(
			shell.WithBaseDelay(time.Millisecond),
			shell.WithJitterFactor(0),
		),
	)
	require.NoError(t, err)

	return handler
}

func givenCatalogueRuleInput(t *testing.T) discount.RuleInput {
	t.Helper()

	percentage := discount.RewardValueTypePercentage
	rewardValue := decimal.RequireFromString("25")

	return discount.RuleInput{
		Name:               "catalogue rule",
		CataloguePredicate: []byte(`{"variantPredicate": {"ids": ["variant-1"]}}`),
		RewardValueType:    &percentage,
		RewardValue:        &rewardValue,
		Channels: []discount.Channel{
			{ID: uuid.New(), Slug: "us", Currency: "USD"},
		},
	}
}

func givenOrderRuleInput(t *testing.T) discount.RuleInput {
	t.Helper()

	fixed := discount.RewardValueTypeFixed
	rewardType := discount.RewardTypeSubtotalDiscount
	rewardValue := decimal.RequireFromString("10.00")

	return discount.RuleInput{
		Name:            "order rule",
		OrderPredicate:  []byte(`{"discountedObjectPredicate": {"ids": ["order-1"]}}`),
		RewardType:      &rewardType,
		RewardValueType: &fixed,
		RewardValue:     &rewardValue,
		Channels: []discount.Channel{
			{ID: uuid.New(), Slug: "us", Currency: "USD"},
		},
	}
}

/*** In-memory fakes ***/

type fakeEventLog struct {
	entries         eventlog.Entries
	appended        eventlog.Entries
	appendConflicts int
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

type fakePromotionSource struct {
	promotion discount.PromotionSnapshot
}

func (f fakePromotionSource) LoadPromotion(_ context.Context, _ uuid.UUID) (discount.PromotionSnapshot, error) {
	return f.promotion, nil
}

type fakeRuleRepository struct {
	savedRules        []discount.PreparedRule
	clearedPromotions []uuid.UUID
}

func (f *fakeRuleRepository) SaveRule(_ context.Context, rule discount.PreparedRule) error {
	f.savedRules = append(f.savedRules, rule)
	return nil
}

func (f *fakeRuleRepository) ClearConvertedFromSale(_ context.Context, promotionID uuid.UUID) error {
	f.clearedPromotions = append(f.clearedPromotions, promotionID)
	return nil
}

type fakeScheduler struct {
	scheduledRules []discount.PreparedRule
	err            error
}

func (f *fakeScheduler) ScheduleRuleRecalculation(_ context.Context, rule discount.PreparedRule) error {
	if f.err != nil {
		return f.err
	}

	f.scheduledRules = append(f.scheduledRules, rule)
	return nil
}

package createpromotionrule

import (
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/discount"
)

const (
	commandType = "CreatePromotionRule"
)

// Command represents the intent to add a new rule to a promotion.
type Command struct {
	PromotionID uuid.UUID
	Rule        discount.RuleInput
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(promotionID uuid.UUID, rule discount.RuleInput, occurredAt time.Time) Command {
	return Command{
		PromotionID: promotionID,
		Rule:        rule,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

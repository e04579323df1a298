package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/eventlog"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple log Entries to DomainEvents.
func DomainEventsFrom(entries eventlog.Entries) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0)

	for _, entry := range entries {
		domainEvent, err := DomainEventFrom(entry)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a log Entry to its corresponding DomainEvent.
func DomainEventFrom(entry eventlog.Entry) (core.DomainEvent, error) {
	switch entry.EventType {
	case core.PromotionRuleCreatedEventType:
		return unmarshalPromotionRuleCreated(entry.PayloadJSON)

	case core.OrderRefundedEventType:
		return unmarshalOrderRefunded(entry.PayloadJSON)

	case core.OrderRefundRejectedEventType:
		return unmarshalOrderRefundRejected(entry.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPromotionRuleCreated(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PromotionRuleCreated)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PromotionRuleCreated{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalOrderRefunded(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.OrderRefunded)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.OrderRefunded{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalOrderRefundRejected(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.OrderRefundRejected)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.OrderRefundRejected{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

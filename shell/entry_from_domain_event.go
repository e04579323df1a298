package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/commercekit/commerce-core-go/core"
	"github.com/commercekit/commerce-core-go/eventlog"
)

// ErrMappingToEntryFailedForDomainEvent is returned when domain event serialization fails
var ErrMappingToEntryFailedForDomainEvent = errors.New("mapping to log entry failed for domain event")

// ErrMappingToEntryFailedForMetadata is returned when metadata serialization fails
var ErrMappingToEntryFailedForMetadata = errors.New("mapping to log entry failed for metadata")

// EntryFrom converts a DomainEvent and EventMetadata to a log Entry
func EntryFrom(event core.DomainEvent, metadata EventMetadata) (eventlog.Entry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return eventlog.Entry{}, errors.Join(ErrMappingToEntryFailedForDomainEvent, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return eventlog.Entry{}, errors.Join(ErrMappingToEntryFailedForMetadata, err)
	}

	entry, err := eventlog.BuildEntry(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)

	if err != nil {
		return eventlog.Entry{}, errors.Join(ErrMappingToEntryFailedForDomainEvent, err)
	}

	return entry, nil
}

// EntryWithEmptyMetadataFrom converts a DomainEvent to a log Entry with empty metadata
func EntryWithEmptyMetadataFrom(event core.DomainEvent) (eventlog.Entry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return eventlog.Entry{}, errors.Join(ErrMappingToEntryFailedForDomainEvent, err)
	}

	entry, err := eventlog.BuildEntryWithEmptyMetadata(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
	)

	if err != nil {
		return eventlog.Entry{}, errors.Join(ErrMappingToEntryFailedForDomainEvent, err)
	}

	return entry, nil
}

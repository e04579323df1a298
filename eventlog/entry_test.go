package eventlog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/eventlog"
)

func Test_BuildEntry(t *testing.T) {
	// arrange
	occurredAt := time.Now().UTC()

	// act
	entry, err := eventlog.BuildEntry(
		"OrderRefunded",
		occurredAt,
		[]byte(`{"OrderID": "order-1"}`),
		[]byte(`{"MessageID": "message-1"}`),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "OrderRefunded", entry.EventType)
	assert.True(t, entry.OccurredAt.Equal(occurredAt))
}

func Test_BuildEntry_InvalidPayloadJSON(t *testing.T) {
	// act
	_, err := eventlog.BuildEntry("OrderRefunded", time.Now(), []byte(`{"broken"`), []byte(`{}`))

	// assert
	assert.ErrorIs(t, err, eventlog.ErrInvalidPayloadJSON)
}

func Test_BuildEntry_InvalidMetadataJSON(t *testing.T) {
	// act
	_, err := eventlog.BuildEntry("OrderRefunded", time.Now(), []byte(`{}`), []byte(`not json`))

	// assert
	assert.ErrorIs(t, err, eventlog.ErrInvalidMetadataJSON)
}

func Test_BuildEntryWithEmptyMetadata(t *testing.T) {
	// act
	entry, err := eventlog.BuildEntryWithEmptyMetadata("OrderRefunded", time.Now(), []byte(`{}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), entry.MetadataJSON)
}

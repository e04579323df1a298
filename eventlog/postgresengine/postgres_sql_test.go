package postgresengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/eventlog"
)

// These tests exercise the SQL building directly, without a database connection.

func Test_BuildSelectQuery(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: defaultEntryTableName}
	selector := eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf("OrderRefunded", "OrderRefundRejected").
		AndAnyScopeOf(eventlog.S("OrderID", "order-1")).
		Finalize()

	// act
	sqlQuery, err := el.buildSelectQuery(selector)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "commerce_events"`)
	assert.Contains(t, sqlQuery, `"event_type" = 'OrderRefunded'`)
	assert.Contains(t, sqlQuery, `"event_type" = 'OrderRefundRejected'`)
	assert.Contains(t, sqlQuery, `payload @> '{"OrderID": "order-1"}'`)
	assert.Contains(t, sqlQuery, `"sequence_number" ASC`)
}

func Test_BuildSelectQuery_CustomTableName(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: "commerce_events_test"}
	selector := eventlog.BuildEntrySelector().MatchingAnyEntry()

	// act
	sqlQuery, err := el.buildSelectQuery(selector)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "commerce_events_test"`)
}

func Test_BuildSelectQuery_AllScopesMustMatch(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: defaultEntryTableName}
	selector := eventlog.BuildEntrySelector().
		Matching().
		AllScopesOf(
			eventlog.S("OrderID", "order-1"),
			eventlog.S("PromotionID", "promo-1"),
		).
		Finalize()

	// act
	sqlQuery, err := el.buildSelectQuery(selector)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `payload @> '{"OrderID": "order-1"}'`)
	assert.Contains(t, sqlQuery, `payload @> '{"PromotionID": "promo-1"}'`)
	assert.Contains(t, sqlQuery, " AND ")
}

func Test_BuildSelectQuery_OccurredWithin(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: defaultEntryTableName}
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	selector := eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf("OrderRefunded").
		OccurredWithin(from, until).
		Finalize()

	// act
	sqlQuery, err := el.buildSelectQuery(selector)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"occurred_at" >=`)
	assert.Contains(t, sqlQuery, `"occurred_at" <=`)
}

func Test_BuildInsertQueryForSingleEntry(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: defaultEntryTableName}
	selector := eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf("OrderRefunded").
		AndAnyScopeOf(eventlog.S("OrderID", "order-1")).
		Finalize()

	entry, err := eventlog.BuildEntryWithEmptyMetadata(
		"OrderRefunded",
		time.Now().UTC(),
		[]byte(`{"OrderID": "order-1"}`),
	)
	require.NoError(t, err)

	// act
	sqlQuery, err := el.buildInsertQueryForSingleEntry(context.Background(), entry, selector, 7)

	// assert - conditional insert guarded by the selected slice's max sequence number
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "commerce_events"`)
	assert.Contains(t, sqlQuery, `WITH "context" AS`)
	assert.Contains(t, sqlQuery, `MAX("sequence_number") AS "max_seq"`)
	assert.Contains(t, sqlQuery, `COALESCE("max_seq", 0) = 7`)
}

func Test_BuildInsertQueryForMultipleEntries(t *testing.T) {
	// arrange
	el := EventLog{entryTableName: defaultEntryTableName}
	selector := eventlog.BuildEntrySelector().
		Matching().
		AnyEventTypeOf("OrderRefunded").
		Finalize()

	first, err := eventlog.BuildEntryWithEmptyMetadata("OrderRefunded", time.Now().UTC(), []byte(`{}`))
	require.NoError(t, err)
	second, err := eventlog.BuildEntryWithEmptyMetadata("OrderRefundRejected", time.Now().UTC(), []byte(`{}`))
	require.NoError(t, err)

	// act
	sqlQuery, err := el.buildInsertQueryForMultipleEntries(
		context.Background(),
		eventlog.Entries{first, second},
		selector,
		3,
	)

	// assert - both entries go through one atomic conditional insert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `WITH "context" AS`)
	assert.Contains(t, sqlQuery, `"vals"`)
	assert.Contains(t, sqlQuery, "UNION ALL")
	assert.Contains(t, sqlQuery, `COALESCE("max_seq", 0) = 3`)
}

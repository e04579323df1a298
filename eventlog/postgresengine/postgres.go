package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/eventlog/postgresengine/internal/adapters"
)

const (
	defaultEntryTableName        = "commerce_events"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildEntryFailed       = "failed to build log entry from database row"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBExecFailed           = "database execution failed during entry append"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgSingleEntrySQLFailed   = "failed to convert single entry insert statement to SQL"
	logMsgMultiEntrySQLFailed    = "failed to convert multiple entries insert statement to SQL"
	logMsgQueryCompleted         = "query completed"
	logMsgEntriesAppended        = "entries appended"
	logMsgConcurrencyConflict    = "concurrency conflict detected"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "event log operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrEventType             = "event_type"
	logAttrEntryCount            = "entry_count"
	logAttrDurationMS            = "duration_ms"
	logAttrExpectedEntries       = "expected_entries"
	logAttrRowsAffected          = "rows_affected"
	logAttrExpectedSequence      = "expected_sequence"
	logActionQuery               = "query"
	logActionAppend              = "append"
	colEventType                 = "event_type"
	colOccurredAt                = "occurred_at"
	colPayload                   = "payload"
	colMetadata                  = "metadata"
	colSequenceNumber            = "sequence_number"
	cteContext                   = "context"
	cteVals                      = "vals"
	dialectPostgres              = "postgres"
	aliasMaxSeq                  = "max_seq"
	castText                     = "?::text"
	castTimestamp                = "?::timestamp with time zone"
	castJsonb                    = "?::jsonb"

	metricQueryDuration        = "commerce_eventlog_query_duration_seconds"
	metricAppendDuration       = "commerce_eventlog_append_duration_seconds"
	metricConcurrencyConflicts = "commerce_eventlog_concurrency_conflicts_total"
	metricLabelOperation       = "operation"
	metricLabelStatus          = "status"
	metricStatusSuccess        = "success"
	metricStatusError          = "error"

	spanNameQuery       = "eventlog.query"
	spanNameAppend      = "eventlog.append"
	spanAttrTable       = "db.table"
	spanAttrEntryCount  = "eventlog.entry_count"
	spanAttrConsistency = "eventlog.consistency"
	spanStatusOK        = "ok"
	spanStatusError     = "error"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// EventLog is the append-only Postgres store for commerce events.
// It leverages a database adapter and supports customizable logging, metrics,
// tracing, and entry table configuration via functional options.
type EventLog struct {
	db               adapters.DBAdapter
	entryTableName   string
	logger           eventlog.Logger
	contextualLogger eventlog.ContextualLogger
	metricsCollector eventlog.MetricsCollector
	tracingCollector eventlog.TracingCollector
}

// Option defines a functional option for configuring an EventLog.
type Option func(*EventLog) error

// WithTableName sets the table name for the EventLog.
func WithTableName(tableName string) Option {
	return func(el *EventLog) error {
		if tableName == "" {
			return eventlog.ErrEmptyTableNameSupplied
		}

		el.entryTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventLog.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Entry counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger eventlog.Logger) Option {
	return func(el *EventLog) error {
		el.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger for the EventLog.
// When set, it is preferred over the plain logger so that log lines carry
// trace correlation from the operation context.
func WithContextualLogger(logger eventlog.ContextualLogger) Option {
	return func(el *EventLog) error {
		el.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventLog.
func WithMetrics(collector eventlog.MetricsCollector) Option {
	return func(el *EventLog) error {
		el.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventLog.
func WithTracing(collector eventlog.TracingCollector) Option {
	return func(el *EventLog) error {
		el.tracingCollector = collector
		return nil
	}
}

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber eventlog.MaxSequenceNumberUint
}

// NewEventLogFromPGXPool creates a new EventLog using a pgx Pool with optional configuration.
func NewEventLogFromPGXPool(db *pgxpool.Pool, options ...Option) (EventLog, error) {
	if db == nil {
		return EventLog{}, eventlog.ErrNilDatabaseConnection
	}

	return applyOptions(EventLog{
		db:             adapters.NewPGXAdapter(db),
		entryTableName: defaultEntryTableName,
	}, options)
}

// NewEventLogFromPGXPoolWithReplica creates a new EventLog using a primary pgx Pool
// and a replica pool for eventually consistent reads.
func NewEventLogFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventLog, error) {
	if db == nil || replica == nil {
		return EventLog{}, eventlog.ErrNilDatabaseConnection
	}

	return applyOptions(EventLog{
		db:             adapters.NewPGXAdapterWithReplica(db, replica),
		entryTableName: defaultEntryTableName,
	}, options)
}

// NewEventLogFromSQLDB creates a new EventLog using a sql.DB with optional configuration.
func NewEventLogFromSQLDB(db *sql.DB, options ...Option) (EventLog, error) {
	if db == nil {
		return EventLog{}, eventlog.ErrNilDatabaseConnection
	}

	return applyOptions(EventLog{
		db:             adapters.NewSQLAdapter(db),
		entryTableName: defaultEntryTableName,
	}, options)
}

// NewEventLogFromSQLX creates a new EventLog using a sqlx.DB with optional configuration.
func NewEventLogFromSQLX(db *sqlx.DB, options ...Option) (EventLog, error) {
	if db == nil {
		return EventLog{}, eventlog.ErrNilDatabaseConnection
	}

	return applyOptions(EventLog{
		db:             adapters.NewSQLXAdapter(db),
		entryTableName: defaultEntryTableName,
	}, options)
}

func applyOptions(el EventLog, options []Option) (EventLog, error) {
	for _, option := range options {
		if err := option(&el); err != nil {
			return EventLog{}, err
		}
	}

	return el, nil
}

// Query retrieves entries from the Postgres event log based on the provided eventlog.Selector criteria
// and returns them as eventlog.Entries
// as well as the MaxSequenceNumberUint for this dynamically selected slice of the log at the time of the query.
func (el EventLog) Query(ctx context.Context, selector eventlog.Selector) (
	eventlog.Entries,
	eventlog.MaxSequenceNumberUint,
	error,
) {

	var empty eventlog.Entries

	ctx, span := el.startSpan(ctx, spanNameQuery)

	sqlQuery, buildQueryErr := el.buildSelectQuery(selector)
	if buildQueryErr != nil {
		el.logError(ctx, logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		el.finishSpan(span, spanStatusError, nil)

		return empty, 0, buildQueryErr
	}

	rows, duration, queryErr := el.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		el.recordDuration(ctx, metricQueryDuration, duration, metricStatusError, logActionQuery)
		el.finishSpan(span, spanStatusError, nil)

		return empty, 0, queryErr
	}
	defer el.closeRows(ctx, rows)

	entries, maxSequenceNumber, scanErr := el.processQueryResults(ctx, rows)
	if scanErr != nil {
		el.recordDuration(ctx, metricQueryDuration, duration, metricStatusError, logActionQuery)
		el.finishSpan(span, spanStatusError, nil)

		return empty, 0, scanErr
	}

	el.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEntryCount, len(entries),
		logAttrDurationMS, el.durationToMilliseconds(duration))

	el.recordDuration(ctx, metricQueryDuration, duration, metricStatusSuccess, logActionQuery)
	el.finishSpan(span, spanStatusOK, map[string]string{spanAttrEntryCount: fmt.Sprintf("%d", len(entries))})

	return entries, maxSequenceNumber, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (el EventLog) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := el.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	el.logQueryWithDuration(ctx, sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		el.logError(ctx, logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(eventlog.ErrQueryingEntriesFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (el EventLog) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		el.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// processQueryResults processes database rows and converts them to log entries.
func (el EventLog) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventlog.Entries,
	eventlog.MaxSequenceNumberUint,
	error,
) {

	var empty eventlog.Entries
	result := queryResultRow{}
	entries := make(eventlog.Entries, 0)
	maxSequenceNumber := eventlog.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber)
		if rowScanErr != nil {
			el.logError(ctx, logMsgScanRowFailed, logAttrError, rowScanErr.Error())

			return empty, 0, errors.Join(eventlog.ErrScanningDBRowFailed, rowScanErr)
		}

		entry, buildEntryErr := eventlog.BuildEntry(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildEntryErr != nil {
			el.logError(ctx, logMsgBuildEntryFailed, logAttrError, buildEntryErr.Error(), logAttrEventType, result.eventType)

			return empty, 0, errors.Join(eventlog.ErrBuildingEntryFailed, buildEntryErr)
		}

		entries = append(entries, entry)
		maxSequenceNumber = result.maxSequenceNumber
	}

	return entries, maxSequenceNumber, nil
}

// Append attempts to append one or multiple eventlog.Entry(s) onto the Postgres event log respecting
// concurrency constraints for this dynamically selected slice of the log, based on the provided
// eventlog.Selector criteria and the expected MaxSequenceNumberUint.
//
// The provided eventlog.Selector criteria should be the same as the ones used for the Query before
// making the business decisions.
//
// The insert query to append multiple entries atomically is heavier than the one built to append a
// single entry. One command/request should typically only produce one event.
// Only supply multiple entries if you are sure that you need to append multiple entries at once!
func (el EventLog) Append(
	ctx context.Context,
	selector eventlog.Selector,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
	entry eventlog.Entry,
	additionalEntries ...eventlog.Entry,
) error {

	allEntries := eventlog.Entries{entry}
	allEntries = append(allEntries, additionalEntries...)

	ctx, span := el.startSpan(ctx, spanNameAppend)

	sqlQuery, buildQueryErr := el.buildAppendQuery(ctx, allEntries, selector, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		el.finishSpan(span, spanStatusError, nil)

		return buildQueryErr
	}

	rowsAffected, duration, execErr := el.executeAppendQuery(ctx, sqlQuery)
	if execErr != nil {
		el.recordDuration(ctx, metricAppendDuration, duration, metricStatusError, logActionAppend)
		el.finishSpan(span, spanStatusError, nil)

		return execErr
	}

	if err := el.validateAppendResult(ctx, rowsAffected, len(allEntries), expectedMaxSequenceNumber); err != nil {
		el.recordDuration(ctx, metricAppendDuration, duration, metricStatusError, logActionAppend)
		el.finishSpan(span, spanStatusError, nil)

		return err
	}

	el.logOperation(
		ctx,
		logMsgEntriesAppended,
		logAttrEntryCount, len(allEntries),
		logAttrDurationMS, el.durationToMilliseconds(duration),
	)

	el.recordDuration(ctx, metricAppendDuration, duration, metricStatusSuccess, logActionAppend)
	el.finishSpan(span, spanStatusOK, map[string]string{spanAttrEntryCount: fmt.Sprintf("%d", len(allEntries))})

	return nil
}

// buildAppendQuery builds the appropriate SQL query for single or multiple entries.
func (el EventLog) buildAppendQuery(
	ctx context.Context,
	allEntries eventlog.Entries,
	selector eventlog.Selector,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	var sqlQuery sqlQueryString
	var buildQueryErr error

	switch len(allEntries) {
	case 1:
		sqlQuery, buildQueryErr = el.buildInsertQueryForSingleEntry(ctx, allEntries[0], selector, expectedMaxSequenceNumber)

	default:
		sqlQuery, buildQueryErr = el.buildInsertQueryForMultipleEntries(ctx, allEntries, selector, expectedMaxSequenceNumber)
	}

	if buildQueryErr != nil {
		el.logError(ctx, logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error(), logAttrEntryCount, len(allEntries))

		return "", buildQueryErr
	}

	return sqlQuery, nil
}

// executeAppendQuery executes the SQL append query and returns rows affected and duration.
func (el EventLog) executeAppendQuery(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := el.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	el.logQueryWithDuration(ctx, sqlQuery, logActionAppend, duration)

	if execErr != nil {
		el.logError(ctx, logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(eventlog.ErrAppendingEntryFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		el.logError(ctx, logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())

		return 0, duration, errors.Join(eventlog.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// validateAppendResult checks if the append operation was successful and detects concurrency conflicts.
func (el EventLog) validateAppendResult(
	ctx context.Context,
	rowsAffected int64,
	expectedEntryCount int,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
) error {

	if rowsAffected < int64(expectedEntryCount) {
		el.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEntries, expectedEntryCount,
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)

		el.incrementCounter(ctx, metricConcurrencyConflicts, logActionAppend)

		return eventlog.ErrConcurrencyConflict
	}

	return nil
}

func (el EventLog) buildSelectQuery(selector eventlog.Selector) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(el.entryTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = el.addWhereClause(selector, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventlog.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (el EventLog) buildInsertQueryForSingleEntry(
	ctx context.Context,
	entry eventlog.Entry,
	selector eventlog.Selector,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// Define the subquery for the CTE
	cteStmt := builder.
		From(el.entryTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = el.addWhereClause(selector, cteStmt)

	// Define the SELECT for the INSERT
	selectStmt := builder.
		From(cteContext).
		Select(goqu.V(entry.EventType), goqu.V(entry.OccurredAt), goqu.V(entry.PayloadJSON), goqu.V(entry.MetadataJSON)).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	// Finalize the full INSERT query
	insertStmt := builder.
		Insert(el.entryTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		el.logError(ctx, logMsgSingleEntrySQLFailed, logAttrError, toSQLErr.Error(), logAttrEventType, entry.EventType)

		return "", errors.Join(eventlog.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (el EventLog) buildInsertQueryForMultipleEntries(
	ctx context.Context,
	entries eventlog.Entries,
	selector eventlog.Selector,
	expectedMaxSequenceNumber eventlog.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// Define the subquery for the CTE
	cteStmt := builder.
		From(el.entryTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = el.addWhereClause(selector, cteStmt)

	// Create individual SELECT statements for each entry
	unionStatements := make([]*goqu.SelectDataset, len(entries))
	for i, entry := range entries {
		unionStatements[i] = builder.
			Select(
				goqu.L(castText, entry.EventType).As(colEventType),
				goqu.L(castTimestamp, entry.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, entry.PayloadJSON).As(colPayload),
				goqu.L(castJsonb, entry.MetadataJSON).As(colMetadata),
			)
	}

	// Combine all SELECT statements with UNION ALL
	valuesStmt := unionStatements[0]
	for i := 1; i < len(unionStatements); i++ {
		valuesStmt = valuesStmt.UnionAll(unionStatements[i])
	}

	// Finalize the full INSERT query
	valsEventType := fmt.Sprintf("%s.%s", cteVals, colEventType)
	valsOccurredAt := fmt.Sprintf("%s.%s", cteVals, colOccurredAt)
	valsPayload := fmt.Sprintf("%s.%s", cteVals, colPayload)
	valsMetadata := fmt.Sprintf("%s.%s", cteVals, colMetadata)

	insertStmt := builder.
		Insert(el.entryTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsEventType, valsOccurredAt, valsPayload, valsMetadata).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		el.logError(ctx, logMsgMultiEntrySQLFailed, logAttrError, toSQLErr.Error(), logAttrEntryCount, len(entries))

		return "", errors.Join(eventlog.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (el EventLog) addWhereClause(selector eventlog.Selector, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range selector.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0)
		scopeExpressions := make([]goqu.Expression, 0)

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(
				eventTypeExpressions,
				goqu.Ex{colEventType: eventType},
			)
		}

		// eventTypes must always be filtered with OR ;-)
		eventTypesExpressionList := goqu.Or(eventTypeExpressions...)

		for _, scope := range item.Scopes() {
			scopeExpressions = append(
				scopeExpressions,
				goqu.L(fmt.Sprintf(`%s @> '{"%s": "%s"}'`, colPayload, scope.Key(), scope.Val())),
			)
		}

		var scopesExpressionList exp.ExpressionList

		if item.AllScopesMustMatch() {
			scopesExpressionList = goqu.And(scopeExpressions...)
		} else {
			scopesExpressionList = goqu.Or(scopeExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(eventTypesExpressionList, scopesExpressionList),
		)
	}

	occurredAtExpressions := make([]goqu.Expression, 0)

	if !selector.OccurredFrom().IsZero() {
		occurredAtExpressions = append(
			occurredAtExpressions,
			goqu.C(colOccurredAt).Gte(selector.OccurredFrom()),
		)
	}

	if !selector.OccurredUntil().IsZero() {
		occurredAtExpressions = append(
			occurredAtExpressions,
			goqu.C(colOccurredAt).Lte(selector.OccurredUntil()),
		)
	}

	selectStmt = selectStmt.Where(
		goqu.And(
			goqu.Or(itemsExpressions...),
			goqu.And(occurredAtExpressions...),
		),
	)

	return selectStmt
}

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (el EventLog) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if el.contextualLogger != nil {
		el.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action,
			logAttrDurationMS, el.durationToMilliseconds(duration), logAttrQuery, sqlQuery)

		return
	}

	if el.logger != nil {
		el.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, el.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (el EventLog) logOperation(ctx context.Context, action string, args ...any) {
	if el.contextualLogger != nil {
		el.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)

		return
	}

	if el.logger != nil {
		el.logger.Info(logMsgOperation+action, args...)
	}
}

func (el EventLog) logWarn(ctx context.Context, msg string, args ...any) {
	if el.contextualLogger != nil {
		el.contextualLogger.WarnContext(ctx, msg, args...)

		return
	}

	if el.logger != nil {
		el.logger.Warn(msg, args...)
	}
}

func (el EventLog) logError(ctx context.Context, msg string, args ...any) {
	if el.contextualLogger != nil {
		el.contextualLogger.ErrorContext(ctx, msg, args...)

		return
	}

	if el.logger != nil {
		el.logger.Error(msg, args...)
	}
}

func (el EventLog) recordDuration(ctx context.Context, metric string, duration time.Duration, status string, operation string) {
	if el.metricsCollector == nil {
		return
	}

	labels := map[string]string{metricLabelOperation: operation, metricLabelStatus: status}

	if contextual, ok := el.metricsCollector.(eventlog.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)

		return
	}

	el.metricsCollector.RecordDuration(metric, duration, labels)
}

func (el EventLog) incrementCounter(ctx context.Context, metric string, operation string) {
	if el.metricsCollector == nil {
		return
	}

	labels := map[string]string{metricLabelOperation: operation}

	if contextual, ok := el.metricsCollector.(eventlog.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)

		return
	}

	el.metricsCollector.IncrementCounter(metric, labels)
}

func (el EventLog) startSpan(ctx context.Context, name string) (context.Context, eventlog.SpanContext) {
	if el.tracingCollector == nil {
		return ctx, nil
	}

	return el.tracingCollector.StartSpan(ctx, name, map[string]string{
		spanAttrTable:       el.entryTableName,
		spanAttrConsistency: eventlog.GetConsistencyLevel(ctx).String(),
	})
}

func (el EventLog) finishSpan(span eventlog.SpanContext, status string, attrs map[string]string) {
	if el.tracingCollector == nil || span == nil {
		return
	}

	el.tracingCollector.FinishSpan(span, status, attrs)
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (el EventLog) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

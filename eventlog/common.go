package eventlog

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty entryTableName supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")
var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingEntriesFailed = errors.New("querying log entries failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrBuildingEntryFailed = errors.New("building log entry from database row failed")
var ErrAppendingEntryFailed = errors.New("appending log entry failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number
// of a dynamically selected slice of the commerce event log.
type MaxSequenceNumberUint = uint

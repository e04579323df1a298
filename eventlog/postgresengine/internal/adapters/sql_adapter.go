package adapters

import (
	"context"
	"database/sql"
)

// stdQuerier is the database/sql handle surface the engine needs.
// Both *sql.DB and *sqlx.DB satisfy it, so the sqlx adapter shares this code path.
type stdQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLAdapter implements DBAdapter for handles speaking database/sql.
type SQLAdapter struct {
	db stdQuerier
}

// NewSQLAdapter creates a new adapter for a plain sql.DB handle.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &sqlRows{rows: rows}, nil
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &sqlResult{result: result}, nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (s *sqlRows) Next() bool {
	return s.rows.Next()
}

func (s *sqlRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *sqlRows) Close() error {
	return s.rows.Close()
}

type sqlResult struct {
	result sql.Result
}

func (s *sqlResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

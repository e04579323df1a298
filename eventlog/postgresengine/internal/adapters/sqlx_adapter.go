package adapters

import (
	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
// sqlx embeds *sql.DB, so the adapter reuses the database/sql row and result wrappers.
type SQLXAdapter struct {
	SQLAdapter
}

// NewSQLXAdapter creates a new adapter for a sqlx.DB handle.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{SQLAdapter{db: db}}
}

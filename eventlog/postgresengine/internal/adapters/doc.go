// Package adapters contains the thin database driver adapters the Postgres
// engine uses, so that the engine itself stays agnostic of pgx vs sqlx vs
// database/sql connection pools.
package adapters

package config

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLXConfig creates a configured *sqlx.DB for the given DSN.
// Connections are established lazily on first use.
func PostgresSQLXConfig(dsn string) *sqlx.DB {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection, error: ", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return db
}

// PostgresSQLXSingleConfig creates a configured *sqlx.DB for the single-node database.
func PostgresSQLXSingleConfig() *sqlx.DB {
	return PostgresSQLXConfig(PostgresDSN())
}

// PostgresSQLXPrimaryConfig creates a configured *sqlx.DB for the primary node of a replicated database.
func PostgresSQLXPrimaryConfig() *sqlx.DB {
	return PostgresSQLXConfig(PostgresPrimaryDSN())
}

// PostgresSQLXReplicaConfig creates a configured *sqlx.DB for the replica node of a replicated database.
func PostgresSQLXReplicaConfig() *sqlx.DB {
	return PostgresSQLXConfig(PostgresReplicaDSN())
}

// PostgresSQLXTestConfig creates a configured *sqlx.DB for the test database.
func PostgresSQLXTestConfig() *sqlx.DB {
	return PostgresSQLXConfig(PostgresTestDSN())
}

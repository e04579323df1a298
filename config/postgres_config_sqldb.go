package config

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLDBConfig creates a configured *sql.DB for the given DSN.
// Connections are established lazily on first use.
func PostgresSQLDBConfig(dsn string) *sql.DB {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	db, err := sql.Open("postgres", dsn)
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

// PostgresSQLDBSingleConfig creates a configured *sql.DB for the single-node database.
func PostgresSQLDBSingleConfig() *sql.DB {
	return PostgresSQLDBConfig(PostgresDSN())
}

// PostgresSQLDBTestConfig creates a configured *sql.DB for the test database.
func PostgresSQLDBTestConfig() *sql.DB {
	return PostgresSQLDBConfig(PostgresTestDSN())
}

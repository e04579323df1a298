// Package config provides environment-driven configuration for the database
// pools, the validation limits, and the test observability providers.
package config

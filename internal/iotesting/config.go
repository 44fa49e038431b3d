// Package iotesting provides shared test utilities for integration
// tests. This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/Don-Green-Here/npdb/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration
	// tests. This ensures tests never accidentally run against
	// production databases.
	TestDatabaseName = "npdb_test"
)

// GetTestConfig returns a configuration suitable for integration
// tests: built-in defaults, overridden by NPDB_DATABASE_* environment
// variables, with the database name always forced to TestDatabaseName
// for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	if v := os.Getenv("NPDB_DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("NPDB_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("NPDB_DATABASE_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("NPDB_DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for
// tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

package pipeline

import (
	"context"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/states"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate for both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple
// times.
type SchemaManager interface {
	// Create creates the initial database schema using GORM
	// AutoMigrate, applies foreign keys and collation, and seeds the
	// states registry.
	Create(ctx context.Context, cfg *config.Config, reg *states.Registry) error

	// Migrate updates the database schema to the latest version using
	// GORM AutoMigrate. GORM handles schema version tracking
	// automatically.
	Migrate(ctx context.Context, cfg *config.Config) error
}

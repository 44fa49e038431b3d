// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"
	"strings"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the pipeline.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) pipeline.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate,
// applies foreign keys and collation, and seeds the states registry.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
	reg *states.Registry,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.applyForeignKeys(ctx); err != nil {
		return err
	}

	// Set collation for string columns
	// (critical for correct sorting)
	if err := m.setCollation(ctx); err != nil {
		return err
	}

	if err := m.seedStates(ctx, reg); err != nil {
		return err
	}

	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	return nil
}

// applyForeignKeys adds the referential constraints AutoMigrate does
// not know about. Already-present constraints are skipped.
func (m *manager) applyForeignKeys(ctx context.Context) error {
	pool := m.operator.Pool()

	for _, stmt := range schema.ForeignKeys() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			if isDuplicateObject(err) {
				continue
			}
			return ConstraintError(stmt, err)
		}
	}
	return nil
}

// setCollation sets "C" collation on specified varchar columns.
// This is critical for deterministic sorting and comparison of
// scientific names.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()

	qStr := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	for _, col := range schema.CollationColumnList() {
		q := fmt.Sprintf(qStr, col.Table, col.Column, col.Varchar)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.Table, col.Column, err)
		}
	}

	return nil
}

// seedStates inserts the registry jurisdictions, leaving rows already
// present untouched so manual deactivation survives re-creation.
func (m *manager) seedStates(
	ctx context.Context,
	reg *states.Registry,
) error {
	pool := m.operator.Pool()

	q := `
INSERT INTO states (state_code, state_name, state_slug, is_active)
VALUES ($1, $2, $3, $4)
ON CONFLICT (state_code) DO NOTHING`

	for _, st := range reg.All() {
		_, err := pool.Exec(ctx, q,
			st.Code, st.Name, st.Slug, st.Active)
		if err != nil {
			return SeedStatesError(st.Code, err)
		}
	}
	return nil
}

func isDuplicateObject(err error) bool {
	// 42710: duplicate_object, 42P07: duplicate_table
	return strings.Contains(err.Error(), "42710") ||
		strings.Contains(err.Error(), "already exists")
}

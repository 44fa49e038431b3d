// Package ioexport writes portable SQLite snapshots of the canonical
// plant data. A snapshot carries the tables a downstream application
// needs to browse and filter plants offline; raw fetches and trait KVs
// stay behind in PostgreSQL.
package ioexport

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"
)

type exporter struct {
	operator db.Operator
}

// New creates an Exporter backed by the connected operator.
func New(op db.Operator) pipeline.Exporter {
	return &exporter{operator: op}
}

// exportTable describes one table copied into the snapshot. An empty
// selectSQL copies all columns as-is.
type exportTable struct {
	name      string
	createSQL string
	columns   []string
	selectSQL string
}

var exportTables = []exportTable{
	{
		name: "states",
		createSQL: `CREATE TABLE states (
  state_code TEXT PRIMARY KEY,
  state_name TEXT NOT NULL,
  state_slug TEXT NOT NULL,
  is_active INTEGER NOT NULL
)`,
		columns: []string{"state_code", "state_name", "state_slug",
			"is_active"},
	},
	{
		name: "canonical_plants",
		createSQL: `CREATE TABLE canonical_plants (
  symbol TEXT PRIMARY KEY,
  scientific_name TEXT NOT NULL,
  canonical_name TEXT,
  family TEXT,
  preferred_common_name TEXT
)`,
		columns: []string{"symbol", "scientific_name", "canonical_name",
			"family", "preferred_common_name"},
	},
	{
		name: "plant_state_presences",
		createSQL: `CREATE TABLE plant_state_presences (
  state_code TEXT NOT NULL,
  symbol TEXT NOT NULL,
  PRIMARY KEY (state_code, symbol)
)`,
		columns: []string{"state_code", "symbol"},
		// presences accumulate one row per fetch; the snapshot keeps
		// the distinct (state, symbol) pairs
		selectSQL: `SELECT DISTINCT state_code, symbol
FROM plant_state_presences`,
	},
	{
		name: "plant_common_names",
		createSQL: `CREATE TABLE plant_common_names (
  symbol TEXT NOT NULL,
  common_name TEXT NOT NULL,
  state_key TEXT NOT NULL,
  source_system TEXT NOT NULL,
  is_preferred INTEGER NOT NULL
)`,
		columns: []string{"symbol", "common_name", "state_key",
			"source_system", "is_preferred"},
	},
	{
		name: "plant_traits_normalized",
		createSQL: `CREATE TABLE plant_traits_normalized (
  symbol TEXT NOT NULL,
  trait_key TEXT NOT NULL,
  trait_value TEXT NOT NULL,
  value_type TEXT NOT NULL,
  PRIMARY KEY (symbol, trait_key)
)`,
		columns: []string{"symbol", "trait_key", "trait_value",
			"value_type"},
	},
	{
		name: "plant_filter_indices",
		createSQL: `CREATE TABLE plant_filter_indices (
  symbol TEXT PRIMARY KEY,
  preferred_common_name TEXT,
  scientific_name TEXT NOT NULL,
  family TEXT,
  plant_group TEXT,
  growth_habits_raw TEXT,
  native_status_raw TEXT,
  duration_raw TEXT,
  duration_primary TEXT NOT NULL,
  shade_tolerance TEXT NOT NULL,
  moisture_use TEXT NOT NULL,
  bloom_period TEXT NOT NULL,
  flower_conspicuous TEXT NOT NULL,
  fall_conspicuous TEXT NOT NULL,
  leaf_retention TEXT NOT NULL,
  is_shade_tolerant INTEGER NOT NULL,
  is_showy_bloomer INTEGER NOT NULL,
  has_fall_interest INTEGER NOT NULL,
  is_evergreen INTEGER NOT NULL,
  is_non_flowering INTEGER NOT NULL,
  has_profile_kv INTEGER NOT NULL,
  has_characteristics_kv INTEGER NOT NULL
)`,
		columns: []string{"symbol", "preferred_common_name",
			"scientific_name", "family", "plant_group",
			"growth_habits_raw", "native_status_raw", "duration_raw",
			"duration_primary", "shade_tolerance", "moisture_use",
			"bloom_period", "flower_conspicuous", "fall_conspicuous",
			"leaf_retention", "is_shade_tolerant", "is_showy_bloomer",
			"has_fall_interest", "is_evergreen", "is_non_flowering",
			"has_profile_kv", "has_characteristics_kv"},
	},
	{
		name: "plant_durations",
		createSQL: `CREATE TABLE plant_durations (
  symbol TEXT NOT NULL,
  duration TEXT NOT NULL,
  PRIMARY KEY (symbol, duration)
)`,
		columns: []string{"symbol", "duration"},
	},
	{
		name: "plant_growth_habits",
		createSQL: `CREATE TABLE plant_growth_habits (
  symbol TEXT NOT NULL,
  growth_habit TEXT NOT NULL,
  PRIMARY KEY (symbol, growth_habit)
)`,
		columns: []string{"symbol", "growth_habit"},
	},
}

// snapshotIndexes speed up the queries an embedding application runs.
var snapshotIndexes = []string{
	"CREATE INDEX idx_presence_state ON plant_state_presences (state_code)",
	"CREATE INDEX idx_traits_symbol ON plant_traits_normalized (symbol)",
	"CREATE INDEX idx_filter_shade ON plant_filter_indices (shade_tolerance)",
	"CREATE INDEX idx_filter_duration ON plant_filter_indices (duration_primary)",
	"CREATE INDEX idx_durations_value ON plant_durations (duration)",
	"CREATE INDEX idx_habits_value ON plant_growth_habits (growth_habit)",
}

// Export writes the snapshot to path, replacing any existing file.
// All tables are written in one SQLite transaction, so a failed export
// never leaves a partial snapshot behind.
func (e *exporter) Export(
	ctx context.Context,
	path string,
) (*pipeline.ExportResult, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, OpenError(path, err)
	}

	lite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer lite.Close()
	// sequential writes through one connection
	lite.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
	} {
		if _, err := lite.ExecContext(ctx, pragma); err != nil {
			return nil, OpenError(path, err)
		}
	}

	tx, err := lite.BeginTx(ctx, nil)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer tx.Rollback()

	bar := pb.Full.Start(len(exportTables))
	bar.Set("prefix", "Exporting tables: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	res := &pipeline.ExportResult{Tables: make(map[string]int)}
	var total int
	for _, table := range exportTables {
		n, err := e.copyTable(ctx, tx, table)
		if err != nil {
			return nil, err
		}
		res.Tables[table.name] = n
		total += n
		bar.Increment()
	}

	for _, idxSQL := range snapshotIndexes {
		if _, err := tx.ExecContext(ctx, idxSQL); err != nil {
			return nil, WriteError("index", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, WriteError(path, err)
	}

	slog.Info("exported snapshot",
		"path", path,
		"tables", len(res.Tables),
		"rows", humanize.Comma(int64(total)),
	)
	return res, nil
}

// copyTable creates the table in the snapshot and streams its rows
// over from PostgreSQL.
func (e *exporter) copyTable(
	ctx context.Context,
	tx *sql.Tx,
	table exportTable,
) (int, error) {
	if _, err := tx.ExecContext(ctx, table.createSQL); err != nil {
		return 0, WriteError(table.name, err)
	}

	cols := ""
	marks := ""
	for i, c := range table.columns {
		if i > 0 {
			cols += ", "
			marks += ", "
		}
		cols += c
		marks += "?"
	}
	ins, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", table.name, cols, marks))
	if err != nil {
		return 0, WriteError(table.name, err)
	}
	defer ins.Close()

	sel := table.selectSQL
	if sel == "" {
		sel = fmt.Sprintf("SELECT %s FROM %s", cols, table.name)
	}
	rows, err := e.operator.Pool().Query(ctx, sel)
	if err != nil {
		return 0, WriteError(table.name, err)
	}
	defer rows.Close()

	var n int
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return 0, WriteError(table.name, err)
		}
		if _, err := ins.ExecContext(ctx, values...); err != nil {
			return 0, WriteError(table.name, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, WriteError(table.name, err)
	}
	return n, nil
}

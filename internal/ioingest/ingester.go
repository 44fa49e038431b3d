// Package ioingest parses recorded checklist fetches into the raw
// record store. Ingest is replayable: a fetch can be parsed any number
// of times without duplicating rows, because uniqueness is scoped to
// (fetch_id, symbol, synonym_key).
package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnuuid"
)

// paramsPerRow is the number of bind parameters per raw row insert.
// PostgreSQL caps a statement at 65535 parameters; 6000 rows at 10
// params stays safely under the limit.
const (
	paramsPerRow = 10
	maxBatchRows = 6000
)

type ingester struct {
	operator db.Operator
	ledger   pipeline.Ledger
	cfg      *config.Config
}

// New creates an Ingester over the raw record store.
func New(
	op db.Operator,
	ledger pipeline.Ledger,
	cfg *config.Config,
) pipeline.Ingester {
	return &ingester{operator: op, ledger: ledger, cfg: cfg}
}

type rawRow struct {
	fetchID    int64
	stateCode  string
	rec        usda.ChecklistRecord
	synonymKey string
	recordUUID string
}

func (ing *ingester) ParseFetch(
	ctx context.Context,
	fetchID int64,
) (*pipeline.BatchResult, error) {
	fetch, err := ing.ledger.GetFetch(ctx, fetchID)
	if err != nil {
		return nil, err
	}
	if !fetch.StateCode.Valid {
		return nil, UnusableFetchError(fetchID, "no state code")
	}
	if !fetch.HTTPStatus.Valid || fetch.HTTPStatus.Int32 != 200 ||
		fetch.Body.String == "" {
		return nil, UnusableFetchError(fetchID, "fetch did not succeed")
	}

	records, rejects, err := usda.ParseChecklist(
		strings.NewReader(fetch.Body.String))
	if err != nil {
		return nil, UnusableFetchError(fetchID, err.Error())
	}
	for _, rej := range rejects {
		slog.Warn("rejected checklist row",
			"fetchID", fetchID, "line", rej.Line, "reason", rej.Reason)
	}

	rows := make([]rawRow, 0, len(records))
	for _, rec := range records {
		// empty string is the sentinel for an absent synonym, so the
		// dedup key compares stably instead of as a NULL wildcard
		key := rec.SynonymSymbol
		dedup := fmt.Sprintf("%d|%s|%s", fetchID, rec.Symbol, key)
		rows = append(rows, rawRow{
			fetchID:    fetchID,
			stateCode:  fetch.StateCode.String,
			rec:        rec,
			synonymKey: key,
			recordUUID: gnuuid.New(dedup).String(),
		})
	}

	inserted, err := ing.insertRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	res := &pipeline.BatchResult{
		Accepted: inserted,
		Skipped:  len(rows) - inserted,
		Rejected: len(rejects),
	}
	slog.Info("parsed state checklist",
		"fetchID", fetchID,
		"state", fetch.StateCode.String,
		"accepted", humanize.Comma(int64(res.Accepted)),
		"skipped", res.Skipped,
		"rejected", res.Rejected,
	)
	return res, nil
}

// insertRows bulk-inserts raw rows in one transaction. Replayed rows
// hit the dedup index and are dropped by ON CONFLICT DO NOTHING.
func (ing *ingester) insertRows(
	ctx context.Context,
	rows []rawRow,
) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batchSize := ing.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > maxBatchRows {
		batchSize = maxBatchRows
	}

	tx, err := ing.operator.Pool().Begin(ctx)
	if err != nil {
		return 0, InsertError(err)
	}
	defer tx.Rollback(ctx)

	bar := pb.Full.Start(len(rows))
	bar.Set("prefix", "Ingesting rows: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	now := time.Now().UTC()
	var totalInserted int

	for i := 0; i < len(rows); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(rows)})
		batch := rows[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, row := range batch {
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				argIdx, argIdx+1, argIdx+2, argIdx+3, argIdx+4,
				argIdx+5, argIdx+6, argIdx+7, argIdx+8, argIdx+9,
			))
			valueArgs = append(valueArgs,
				row.fetchID,
				row.stateCode,
				row.rec.Symbol,
				nullIfEmpty(row.rec.SynonymSymbol),
				row.synonymKey,
				row.rec.ScientificName,
				nullIfEmpty(row.rec.CommonName),
				nullIfEmpty(row.rec.Family),
				row.recordUUID,
				now,
			)
			argIdx += paramsPerRow
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO raw_state_plants
			   (fetch_id, state_code, symbol, synonym_symbol, synonym_key,
			    scientific_name, common_name, family, record_uuid, created_at)
			 VALUES %s
			 ON CONFLICT (fetch_id, symbol, synonym_key) DO NOTHING`,
			strings.Join(valueStrings, ", "),
		)

		result, err := tx.Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, InsertError(err)
		}
		totalInserted += int(result.RowsAffected())
		bar.Add(len(batch))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, InsertError(err)
	}
	return totalInserted, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

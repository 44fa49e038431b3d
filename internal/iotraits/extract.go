package iotraits

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/gnames/gnuuid"
)

// valueKeyLen bounds the dedup prefix of a trait value. The full
// value is stored untruncated; only the uniqueness comparison uses
// the prefix.
const valueKeyLen = 160

// ExtractFetch re-runs trait extraction over a recorded page fetch
// without touching the network. The symbol and page type are recovered
// from the fetch URL.
func (tm *traitManager) ExtractFetch(
	ctx context.Context,
	fetchID int64,
) (*pipeline.ScrapeResult, error) {
	fetch, err := tm.ledger.GetFetch(ctx, fetchID)
	if err != nil {
		return nil, err
	}

	symbol, pageType, err := usda.ParsePageURL(fetch.URL)
	if err != nil {
		return nil, ExtractError(fetchID, err)
	}

	res := &pipeline.ScrapeResult{}

	// replay honors the settled status: a page known empty or broken
	// is not revisited, and HAS_DATA never transitions away on a
	// replayed older fetch
	status, err := tm.pageStatus(ctx, symbol, pageType)
	if err != nil {
		return nil, err
	}
	if status == schema.PageStatusNoData || status == schema.PageStatusError {
		res.SkippedDone++
		return res, nil
	}

	if !fetch.HTTPStatus.Valid || fetch.HTTPStatus.Int32 != 200 ||
		fetch.Body.String == "" {
		if status == schema.PageStatusHasData {
			res.SkippedDone++
			return res, nil
		}
		res.Errors++
		return res, tm.setPageStatus(ctx, symbol, pageType,
			fetch.URL, fetch.FetchedAt, schema.PageStatusError,
			"fetch did not succeed")
	}

	kvs, err := parsePage(pageType, fetch.Body.String)
	if err != nil {
		if status == schema.PageStatusHasData {
			res.SkippedDone++
			return res, nil
		}
		res.Errors++
		return res, tm.setPageStatus(ctx, symbol, pageType,
			fetch.URL, fetch.FetchedAt, schema.PageStatusError,
			err.Error())
	}

	if len(kvs) == 0 {
		if status == schema.PageStatusHasData {
			res.SkippedDone++
			return res, nil
		}
		res.NoData++
		return res, tm.setPageStatus(ctx, symbol, pageType,
			fetch.URL, fetch.FetchedAt, schema.PageStatusNoData, "")
	}

	stored, err := tm.storeKVs(ctx, symbol, fetch.URL, fetch.FetchedAt, kvs)
	if err != nil {
		return nil, err
	}
	res.KVs = stored

	slog.Info("extracted traits from recorded fetch",
		"fetchID", fetchID, "symbol", symbol,
		"pageType", pageType, "kvs", stored)
	return res, tm.setPageStatus(ctx, symbol, pageType,
		fetch.URL, fetch.FetchedAt, schema.PageStatusHasData, "")
}

// storeKVs inserts extracted trait pairs in one transaction. The
// dedup key is (symbol, section, trait_name, value_key); the same
// observation extracted twice inserts nothing.
func (tm *traitManager) storeKVs(
	ctx context.Context,
	symbol, pageURL string,
	fetchedAt time.Time,
	kvs []usda.TraitKV,
) (int, error) {
	tx, err := tm.operator.Pool().Begin(ctx)
	if err != nil {
		return 0, ExtractError(0, err)
	}
	defer tx.Rollback(ctx)

	var stored int
	for _, kv := range kvs {
		valueKey := kv.Value
		if utf8.RuneCountInString(valueKey) > valueKeyLen {
			valueKey = string([]rune(valueKey)[:valueKeyLen])
		}
		kvUUID := gnuuid.New(
			symbol + "|" + kv.Section + "|" + kv.Name + "|" + valueKey,
		).String()

		tag, err := tx.Exec(ctx, `
INSERT INTO plant_trait_kvs
  (symbol, section, trait_name, trait_value, value_key, kv_uuid,
   page_url, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (symbol, section, trait_name, value_key) DO NOTHING`,
			symbol, kv.Section, kv.Name, kv.Value, valueKey,
			kvUUID, pageURL, fetchedAt)
		if err != nil {
			return 0, ExtractError(0, err)
		}
		stored += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, ExtractError(0, err)
	}
	return stored, nil
}

// GetTraits returns the raw KV rows for a symbol.
func (tm *traitManager) GetTraits(
	ctx context.Context,
	symbol string,
) ([]schema.PlantTraitKV, error) {
	rows, err := tm.operator.Pool().Query(ctx, `
SELECT id, symbol, section, trait_name, trait_value, value_key,
       kv_uuid, page_url, fetched_at
FROM plant_trait_kvs
WHERE symbol = $1
ORDER BY section, trait_name`, symbol)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []schema.PlantTraitKV
	for rows.Next() {
		var kv schema.PlantTraitKV
		if err := rows.Scan(&kv.ID, &kv.Symbol, &kv.Section,
			&kv.TraitName, &kv.TraitValue, &kv.ValueKey,
			&kv.KVUUID, &kv.PageURL, &kv.FetchedAt); err != nil {
			return nil, QueryError(err)
		}
		res = append(res, kv)
	}
	return res, rows.Err()
}

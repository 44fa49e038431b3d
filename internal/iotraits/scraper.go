// Package iotraits manages the trait layer: scraping per-plant USDA
// pages into the lossless trait KV store, and projecting those KVs
// into normalized, typed trait rows. Page fetches are gated by a
// status table so a plant whose page is known empty or broken is never
// revisited unless a refetch is forced.
package iotraits

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

type traitManager struct {
	operator db.Operator
	fetcher  pipeline.Fetcher
	ledger   pipeline.Ledger
	cfg      *config.Config
}

// New creates a TraitManager.
func New(
	op db.Operator,
	fetcher pipeline.Fetcher,
	ledger pipeline.Ledger,
	cfg *config.Config,
) pipeline.TraitManager {
	return &traitManager{
		operator: op,
		fetcher:  fetcher,
		ledger:   ledger,
		cfg:      cfg,
	}
}

var pageTypes = []string{
	schema.PageTypeProfile,
	schema.PageTypeCharacteristics,
}

// ScrapeState fetches profile and characteristics pages for every
// canonical plant present in the state. Workers run concurrently;
// per-page failures are recorded in the status table and never abort
// the pass.
func (tm *traitManager) ScrapeState(
	ctx context.Context,
	stateCode string,
	refetch bool,
) (*pipeline.ScrapeResult, error) {
	symbols, err := tm.stateSymbols(ctx, stateCode)
	if err != nil {
		return nil, err
	}

	res := &pipeline.ScrapeResult{}
	var mu sync.Mutex

	bar := pb.Full.Start(len(symbols) * len(pageTypes))
	bar.Set("prefix", "Scraping pages: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	jobs := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	for range tm.cfg.JobsNumber {
		g.Go(func() error {
			for symbol := range jobs {
				for _, pageType := range pageTypes {
					one, err := tm.scrapeOne(ctx, symbol, pageType, refetch)
					if err != nil {
						return err
					}
					mu.Lock()
					res.Fetched += one.Fetched
					res.SkippedDone += one.SkippedDone
					res.NoData += one.NoData
					res.Errors += one.Errors
					res.KVs += one.KVs
					mu.Unlock()
					bar.Increment()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("scraped state pages",
		"state", stateCode,
		"symbols", len(symbols),
		"fetched", res.Fetched,
		"skipped", res.SkippedDone,
		"noData", res.NoData,
		"errors", res.Errors,
		"kvs", res.KVs,
	)
	return res, nil
}

// scrapeOne handles a single symbol/page pair: gate check, fetch,
// extract, status update.
func (tm *traitManager) scrapeOne(
	ctx context.Context,
	symbol, pageType string,
	refetch bool,
) (*pipeline.ScrapeResult, error) {
	res := &pipeline.ScrapeResult{}

	if !refetch {
		done, err := tm.pageDone(ctx, symbol, pageType)
		if err != nil {
			return nil, err
		}
		if done {
			res.SkippedDone++
			return res, nil
		}
	}

	fetchID, err := tm.fetcher.FetchPage(ctx, symbol, pageType)
	res.Fetched++
	pageURL, _ := usda.PageURL(symbol, pageType)
	now := time.Now().UTC()

	if err != nil {
		res.Errors++
		slog.Warn("page fetch failed",
			"symbol", symbol, "pageType", pageType, "error", err)
		return res, tm.setPageStatus(ctx, symbol, pageType,
			pageURL, now, schema.PageStatusError, err.Error())
	}

	fetch, err := tm.ledger.GetFetch(ctx, fetchID)
	if err != nil {
		return nil, err
	}

	kvs, err := parsePage(pageType, fetch.Body.String)
	if err != nil {
		res.Errors++
		return res, tm.setPageStatus(ctx, symbol, pageType,
			pageURL, now, schema.PageStatusError, err.Error())
	}

	if len(kvs) == 0 {
		res.NoData++
		return res, tm.setPageStatus(ctx, symbol, pageType,
			pageURL, now, schema.PageStatusNoData, "")
	}

	stored, err := tm.storeKVs(ctx, symbol, pageURL, now, kvs)
	if err != nil {
		return nil, err
	}
	res.KVs += stored

	return res, tm.setPageStatus(ctx, symbol, pageType,
		pageURL, now, schema.PageStatusHasData, "")
}

func parsePage(pageType, body string) ([]usda.TraitKV, error) {
	switch pageType {
	case schema.PageTypeCharacteristics:
		return usda.ParseCharacteristicsPage(strings.NewReader(body))
	default:
		return usda.ParseProfilePage(strings.NewReader(body))
	}
}

// pageDone reports whether a status row of any kind settles this
// symbol/page pair.
func (tm *traitManager) pageDone(
	ctx context.Context,
	symbol, pageType string,
) (bool, error) {
	status, err := tm.pageStatus(ctx, symbol, pageType)
	return status != "", err
}

// pageStatus returns the recorded status for a symbol/page pair, or
// an empty string when none exists yet.
func (tm *traitManager) pageStatus(
	ctx context.Context,
	symbol, pageType string,
) (string, error) {
	var status string
	err := tm.operator.Pool().QueryRow(ctx, `
SELECT status FROM page_fetches
WHERE symbol = $1 AND page_type = $2`, symbol, pageType).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", StatusError(symbol, pageType, err)
	}
	return status, nil
}

func (tm *traitManager) setPageStatus(
	ctx context.Context,
	symbol, pageType, pageURL string,
	fetchedAt time.Time,
	status, errText string,
) error {
	var e sql.NullString
	if errText != "" {
		e = sql.NullString{String: errText, Valid: true}
	}

	_, err := tm.operator.Pool().Exec(ctx, `
INSERT INTO page_fetches
  (symbol, page_type, page_url, fetched_at, status, error)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (symbol, page_type) DO UPDATE SET
  page_url = EXCLUDED.page_url,
  fetched_at = EXCLUDED.fetched_at,
  status = EXCLUDED.status,
  error = EXCLUDED.error`,
		symbol, pageType, pageURL, fetchedAt, status, e)
	if err != nil {
		return StatusError(symbol, pageType, err)
	}
	return nil
}

func (tm *traitManager) stateSymbols(
	ctx context.Context,
	stateCode string,
) ([]string, error) {
	rows, err := tm.operator.Pool().Query(ctx, `
SELECT DISTINCT symbol FROM plant_state_presences
WHERE state_code = $1 ORDER BY symbol`, stateCode)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, QueryError(err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

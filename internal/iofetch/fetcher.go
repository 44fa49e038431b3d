package iofetch

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/Don-Green-Here/npdb/pkg/usda"
)

// maxBodySize caps stored payloads. State checklists run to a few MB;
// anything past this is not a document we know how to parse.
const maxBodySize = 64 << 20

type fetcher struct {
	client    *http.Client
	ledger    pipeline.Ledger
	registry  *states.Registry
	userAgent string
}

// New creates a Fetcher with its own HTTP client configured from cfg.
func New(
	cfg *config.FetchConfig,
	ledger pipeline.Ledger,
	reg *states.Registry,
) pipeline.Fetcher {
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}
	return NewWithClient(client, cfg, ledger, reg)
}

// NewWithClient creates a Fetcher around an existing HTTP client.
// Used by tests to substitute a mock transport.
func NewWithClient(
	client *http.Client,
	cfg *config.FetchConfig,
	ledger pipeline.Ledger,
	reg *states.Registry,
) pipeline.Fetcher {
	return &fetcher{
		client:    client,
		ledger:    ledger,
		registry:  reg,
		userAgent: cfg.UserAgent,
	}
}

func (f *fetcher) FetchChecklist(
	ctx context.Context,
	stateCode string,
) (int64, error) {
	st, ok := f.registry.ByCode(stateCode)
	if !ok {
		return 0, UnknownStateError(stateCode)
	}

	url := usda.ChecklistURL(st.Slug)
	row := f.get(ctx, url)
	row.StateCode = sql.NullString{String: st.Code, Valid: true}

	id, err := f.ledger.RecordFetch(ctx, row)
	if err != nil {
		return 0, err
	}

	if row.Error.Valid {
		return id, TransportError(url, row.Error.String)
	}
	if row.HTTPStatus.Int32 != http.StatusOK {
		return id, HTTPStatusError(url, int(row.HTTPStatus.Int32))
	}

	slog.Info("fetched state checklist",
		"state", st.Code, "fetchID", id, "bytes", len(row.Body.String))
	return id, nil
}

func (f *fetcher) FetchPage(
	ctx context.Context,
	symbol, pageType string,
) (int64, error) {
	url, err := usda.PageURL(symbol, pageType)
	if err != nil {
		return 0, PageURLError(symbol, pageType, err)
	}

	row := f.get(ctx, url)

	id, err := f.ledger.RecordFetch(ctx, row)
	if err != nil {
		return 0, err
	}

	if row.Error.Valid {
		return id, TransportError(url, row.Error.String)
	}
	if row.HTTPStatus.Int32 != http.StatusOK {
		return id, HTTPStatusError(url, int(row.HTTPStatus.Int32))
	}

	slog.Debug("fetched plant page",
		"symbol", symbol, "pageType", pageType, "fetchID", id)
	return id, nil
}

// get performs the HTTP request and packs the outcome, success or
// failure, into a ledger row. It never returns an error: a failed
// request is still an observation worth recording.
func (f *fetcher) get(ctx context.Context, url string) *schema.Fetch {
	row := &schema.Fetch{
		URL:       url,
		FetchedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		row.Error = sql.NullString{String: err.Error(), Valid: true}
		return row
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		row.Error = sql.NullString{String: err.Error(), Valid: true}
		return row
	}
	defer resp.Body.Close()

	row.HTTPStatus = sql.NullInt32{Int32: int32(resp.StatusCode), Valid: true}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		row.ContentType = sql.NullString{String: ct, Valid: true}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		row.Error = sql.NullString{String: err.Error(), Valid: true}
		return row
	}
	row.Body = sql.NullString{String: string(body), Valid: true}
	return row
}

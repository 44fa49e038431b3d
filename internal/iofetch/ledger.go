// Package iofetch implements the fetch ledger and the HTTP fetcher.
// Every retrieval attempt, successful or not, becomes an append-only
// ledger row; parsing stages replay payloads from the ledger and never
// touch the network.
package iofetch

import (
	"context"
	"errors"

	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/jackc/pgx/v5"
)

type ledger struct {
	operator db.Operator
}

// NewLedger creates a Ledger backed by the fetches table.
func NewLedger(op db.Operator) pipeline.Ledger {
	return &ledger{operator: op}
}

func (l *ledger) RecordFetch(
	ctx context.Context,
	f *schema.Fetch,
) (int64, error) {
	q := `
INSERT INTO fetches
  (url, state_code, fetched_at, http_status, content_type, body, error)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var id int64
	err := l.operator.Pool().QueryRow(ctx, q,
		f.URL, f.StateCode, f.FetchedAt,
		f.HTTPStatus, f.ContentType, f.Body, f.Error,
	).Scan(&id)
	if err != nil {
		return 0, LedgerError("record", err)
	}
	f.ID = id
	return id, nil
}

func (l *ledger) GetFetch(
	ctx context.Context,
	id int64,
) (*schema.Fetch, error) {
	q := `
SELECT id, url, state_code, fetched_at, http_status,
       content_type, body, error
FROM fetches WHERE id = $1`

	var f schema.Fetch
	err := l.operator.Pool().QueryRow(ctx, q, id).Scan(
		&f.ID, &f.URL, &f.StateCode, &f.FetchedAt,
		&f.HTTPStatus, &f.ContentType, &f.Body, &f.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFoundError(id)
	}
	if err != nil {
		return nil, LedgerError("get", err)
	}
	return &f, nil
}

func (l *ledger) LatestSuccess(
	ctx context.Context,
	url string,
) (*schema.Fetch, error) {
	q := `
SELECT id, url, state_code, fetched_at, http_status,
       content_type, body, error
FROM fetches
WHERE url = $1
  AND http_status = 200
  AND coalesce(body, '') <> ''
ORDER BY fetched_at DESC, id DESC
LIMIT 1`

	var f schema.Fetch
	err := l.operator.Pool().QueryRow(ctx, q, url).Scan(
		&f.ID, &f.URL, &f.StateCode, &f.FetchedAt,
		&f.HTTPStatus, &f.ContentType, &f.Body, &f.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, LedgerError("latest", err)
	}
	return &f, nil
}

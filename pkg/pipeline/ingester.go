package pipeline

import "context"

// BatchResult summarizes one ingest pass over a fetch payload.
type BatchResult struct {
	// Accepted is the number of rows inserted.
	Accepted int

	// Skipped is the number of rows that already existed for this
	// fetch (replayed parse).
	Skipped int

	// Rejected is the number of malformed rows dropped with a logged
	// reason. A bad row never aborts the batch.
	Rejected int
}

// Ingester parses stored checklist payloads into the raw record store.
// Parsing is replayable: running it twice over the same fetch yields
// the same raw rows, with the second pass all skips.
type Ingester interface {
	// ParseFetch parses the CSV body of a recorded fetch into
	// raw_state_plants rows. The fetch must be a successful state
	// checklist fetch; anything else is an error.
	ParseFetch(ctx context.Context, fetchID int64) (*BatchResult, error)
}

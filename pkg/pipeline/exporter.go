package pipeline

import "context"

// ExportResult summarizes a snapshot export.
type ExportResult struct {
	// Tables maps exported table name to row count.
	Tables map[string]int
}

// Exporter writes a portable snapshot of the canonical data, the
// normalized traits and the filter index. The snapshot is a standalone
// SQLite file suitable for embedding in downstream applications.
type Exporter interface {
	// Export writes the snapshot to path, replacing any existing file.
	Export(ctx context.Context, path string) (*ExportResult, error)
}

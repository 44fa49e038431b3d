package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaConstraintError
	SchemaCollationError
	SchemaSeedStatesError

	// States registry errors
	StatesConfigError
	StatesUnknownStateError

	// Fetch ledger errors
	FetchLedgerError
	FetchNotFoundError
	FetchTransportError

	// Ingest errors
	IngestFetchUnusableError
	IngestInsertError

	// Canonicalizer errors
	CanonMergeError
	CanonQueryError

	// Trait normalizer errors
	TraitStatusError
	TraitExtractError
	TraitNormalizeError
	TraitPageURLError

	// Filter index errors
	IndexRebuildError
	IndexMissingCanonicalError
	IndexSearchError

	// Export errors
	ExportOpenError
	ExportWriteError
)

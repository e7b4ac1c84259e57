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
	WriteFileError
	RemoveFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnknownDriverError
	DBNotConnectedError
	DBTableCheckError
	DBQueryTablesError
	DBDropTableError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreNotFoundError
	StoreQueryError
	StoreSaveError
	StoreReplaceError

	// Model errors
	ModelInvalidEntryError
	ModelInvalidMetaError

	// Tree errors
	TreeParseError
	TreeEmptyDocumentError

	// Extract errors
	ExtractNoLanguageError
	ExtractNoEntriesError

	// Ingest errors
	IngestFileMissingError
	IngestTEINamespaceError
	IngestNotRDFError
	IngestTransformError
	IngestTurtleError
	IngestJSONError

	// Codec errors
	CodecJSONLDError
	CodecTurtleError
	CodecNaiscOutputError

	// Job errors
	JobInvalidError

	// Dispatch errors
	DispatchClosedError
	DispatchTimeoutError
	DispatchChildError

	// Import errors
	ImportJobStateError
	ImportDownloadError
	ImportSizeMismatchError
	ImportForbiddenError
	ImportNoEntriesError

	// Federation errors
	FederationRequestError
	FederationStatusError
	FederationDecodeError
	FederationNoFormatError

	// Linking errors
	LinkingJobStateError
	LinkingNoBackendError
	LinkingDictNotFoundError
	LinkingExecError
	LinkingRemoteError

	// Server errors
	ServerStartError
)

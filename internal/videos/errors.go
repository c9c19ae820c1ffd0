package videos

import "errors"

// Error taxonomy surfaced to handlers. Handlers map each kind to a
// stable HTTP status; underlying causes stay in the logs.
var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else. Callers cannot tell the two apart.
	ErrNotFound = errors.New("recording not found")

	// ErrUnsupportedMediaType rejects uploads whose content type is not
	// in the video allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported content type")

	// ErrStorageWrite means the blob write failed; no metadata row exists.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrStorageDelete means the blob delete failed; the row is kept.
	ErrStorageDelete = errors.New("storage delete failed")

	// ErrMetadataWrite means a persistence write failed.
	ErrMetadataWrite = errors.New("metadata write failed")

	// ErrUpstreamUnavailable means a collaborator failed during a read
	// path, e.g. URL minting while listing.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

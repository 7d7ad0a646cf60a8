// Package common defines shared sentinel errors used across the service
// and repository layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrMetadataWrite signals that an insert or delete touched an
	// unexpected number of rows or hit a constraint violation.
	ErrMetadataWrite = errors.New("metadata write failed")

	// ErrAttachmentMetadata signals that an attachment row failed to persist
	// after its blob was already written. The blob is compensated before
	// this error propagates.
	ErrAttachmentMetadata = errors.New("attachment metadata write failed")

	// ErrStorageIO signals a filesystem failure: permission denial, medium
	// error, or an interrupted write.
	ErrStorageIO = errors.New("storage i/o error")

	// Service-level errors.
	ErrInternal = errors.New("internal error")
)

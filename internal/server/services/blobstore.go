package services

import (
	"io"

	"noticeboard/internal/storage"
)

// BlobStore is the filesystem abstraction the services orchestrate against.
// *storage.FsStore satisfies it.
type BlobStore interface {
	EnsureDir(path string) error
	WriteBlob(path, name string, src io.Reader) error
	DeleteBlob(path, name string) (storage.DeleteResult, error)
	ListNames(path string) ([]string, error)
	Open(path, name string) (io.ReadCloser, error)
}

// FileUpload is one incoming file: the user-supplied name plus a byte
// source. A nil Data or zero Size marks an empty upload, which is skipped
// rather than rejected.
type FileUpload struct {
	OriginalName string
	Size         int64
	Data         io.Reader
}

func (f FileUpload) empty() bool {
	return f.Data == nil || f.Size == 0
}

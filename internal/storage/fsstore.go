package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"noticeboard/internal/common"
)

// DeleteResult reports the outcome of a blob deletion. Deletion failures are
// meant to be audited, not handled as control flow, so the store reports
// them instead of failing the caller outright wherever the caller asks for
// best-effort semantics.
type DeleteResult int

const (
	// Deleted means a file existed and was removed.
	Deleted DeleteResult = iota
	// AlreadyAbsent means there was nothing to remove.
	AlreadyAbsent
	// Failed means the file could not be removed due to an I/O error.
	Failed
)

func (r DeleteResult) String() string {
	switch r {
	case Deleted:
		return "deleted"
	case AlreadyAbsent:
		return "already absent"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FsStore stores blob bytes on a local filesystem. Paths passed to its
// methods are partition directories produced by PartitionPath; names are
// storage names produced by StorageName. The store takes no locks: safety
// under concurrency comes from globally unique names and idempotent deletes.
type FsStore struct{}

// NewFsStore creates a filesystem blob store.
func NewFsStore() *FsStore {
	return &FsStore{}
}

// EnsureDir creates the directory and all missing ancestors. Idempotent.
func (s *FsStore) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w: %v", path, common.ErrStorageIO, err)
	}
	return nil
}

// WriteBlob writes src fully to path/name. The target must not already
// exist: an existing file means a storage-name collision and is refused.
// Bytes go to a temporary file in the same partition first and are renamed
// into place, so a failed write never leaves a partial file visible under
// the final name.
func (s *FsStore) WriteBlob(path, name string, src io.Reader) error {
	dst := filepath.Join(path, name)

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("write blob %s: target exists: %w", dst, common.ErrStorageIO)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("write blob %s: %w: %v", dst, common.ErrStorageIO, err)
	}

	tmp, err := os.CreateTemp(path, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write blob %s: %w: %v", dst, common.ErrStorageIO, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write blob %s: %w: %v", dst, common.ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write blob %s: %w: %v", dst, common.ErrStorageIO, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write blob %s: %w: %v", dst, common.ErrStorageIO, err)
	}
	return nil
}

// DeleteBlob removes path/name. An absent file is not an error: the delete
// is idempotent and reports AlreadyAbsent. A genuine I/O failure reports
// Failed together with the wrapped error.
func (s *FsStore) DeleteBlob(path, name string) (DeleteResult, error) {
	target := filepath.Join(path, name)
	err := os.Remove(target)
	if err == nil {
		return Deleted, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return AlreadyAbsent, nil
	}
	return Failed, fmt.Errorf("delete blob %s: %w: %v", target, common.ErrStorageIO, err)
}

// ListNames returns the file names currently present in a partition.
// A missing partition yields an empty list, not an error. Subdirectories
// are skipped.
func (s *FsStore) ListNames(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w: %v", path, common.ErrStorageIO, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Open opens path/name for reading. Returns common.ErrNotFound when the
// blob does not exist.
func (s *FsStore) Open(path, name string) (io.ReadCloser, error) {
	target := filepath.Join(path, name)
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open blob %s: %w", target, common.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob %s: %w: %v", target, common.ErrStorageIO, err)
	}
	return f, nil
}

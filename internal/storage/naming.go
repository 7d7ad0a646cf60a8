// Package storage implements the on-disk layout for attachment blobs:
// date-partitioned directory paths, collision-free storage names, and a
// filesystem store with atomic writes and idempotent deletes.
//
// Layout on disk is root/yyyy/mm/dd/<storage-name>; nothing else about the
// tree is load-bearing.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartitionPath returns the partition directory for the given reference
// time: root/yyyy/mm/dd. The same date always yields the same path.
//
// The reference time is an explicit parameter so that orchestrators and
// tests can supply deterministic values instead of ambient process time.
func PartitionPath(root string, ref time.Time) string {
	return filepath.Join(root, fmt.Sprintf("%04d", ref.Year()), fmt.Sprintf("%02d", int(ref.Month())), fmt.Sprintf("%02d", ref.Day()))
}

// StorageName generates a filesystem-safe name for storing an uploaded file.
// The name is a random UUID, suffixed with the original extension (lowered)
// as a content-type hint. Nothing else of the original name is used, so two
// uploads of the same file never collide and a hostile original name cannot
// traverse directories.
//
// Collision probability is that of UUIDv4: ~2^-122 for any pair of names.
// An empty original name yields a bare UUID with no extension.
func StorageName(originalName string) string {
	name := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if ext == "." {
		ext = ""
	}
	return name + ext
}

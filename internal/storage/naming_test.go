package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPartitionPath_Deterministic(t *testing.T) {
	ref := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	p1 := PartitionPath("/upload", ref)
	p2 := PartitionPath("/upload", ref.Add(3*time.Hour))

	require.Equal(t, filepath.Join("/upload", "2024", "05", "01"), p1)
	require.Equal(t, p1, p2, "same date must yield the same partition")
}

func TestPartitionPath_PadsSingleDigits(t *testing.T) {
	ref := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	require.Equal(t, filepath.Join("/upload", "2026", "01", "09"), PartitionPath("/upload", ref))
}

func TestStorageName_KeepsOnlyExtension(t *testing.T) {
	name := StorageName("Report FINAL (2).PDF")
	require.True(t, strings.HasSuffix(name, ".pdf"))
	require.NotContains(t, name, "Report")
	require.NotContains(t, name, " ")
}

func TestStorageName_EmptyOriginal(t *testing.T) {
	name := StorageName("")
	require.NotEmpty(t, name)
	require.NotContains(t, name, ".")
}

func TestStorageName_NoSeparatorsOrTraversal(t *testing.T) {
	for _, original := range []string{
		"../../etc/passwd",
		"..\\..\\boot.ini",
		"a/b/c.png",
		"....",
	} {
		name := StorageName(original)
		require.NotContains(t, name, "/", "original %q", original)
		require.NotContains(t, name, "\\", "original %q", original)
		require.NotContains(t, name, "..", "original %q", original)
	}
}

func TestStorageName_Distinct(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		name := StorageName("a.png")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate storage name after %d calls: %s", i, name)
		}
		seen[name] = struct{}{}
	}
}

package testutil

import (
	"archive/zip"
	"os"
	"sort"
	"testing"
)

// BuildZip writes a zip archive with the given name/content entries to path.
func BuildZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish %s: %v", path, err)
	}
}

// ZipBytes returns a zip archive with the given entries.
func ZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	path := t.TempDir() + string(os.PathSeparator) + "fixture.zip"
	BuildZip(t, path, files)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

// Package testutil holds fixtures shared by package and command tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/glorpus-work/emulatorx/internal/logger"
)

// Fixture is a canned HTTP response.
type Fixture struct {
	Body []byte
	// DeclaredLength overrides the Content-Length header when positive. A value larger than
	// len(Body) makes the server close the connection early, like a dropped download.
	DeclaredLength int64
	// Status defaults to 200.
	Status int
}

// FixtureServer serves fixtures by request path and counts hits.
type FixtureServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Fixture
	hits   map[string]int
}

// NewFixtureServer starts a server for routes and closes it when the test ends.
func NewFixtureServer(t *testing.T, routes map[string]Fixture) *FixtureServer {
	t.Helper()
	fs := &FixtureServer{routes: routes, hits: make(map[string]int)}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

// Set replaces or adds the fixture for path.
func (fs *FixtureServer) Set(path string, f Fixture) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.routes[path] = f
}

// URLFor returns the absolute URL of path on this server.
func (fs *FixtureServer) URLFor(path string) string {
	return fs.URL + path
}

// Hits returns how often path was requested.
func (fs *FixtureServer) Hits(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *FixtureServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	f, ok := fs.routes[r.URL.Path]
	fs.hits[r.URL.Path]++
	fs.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	length := int64(len(f.Body))
	if f.DeclaredLength > 0 {
		length = f.DeclaredLength
	}
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(f.Body)
}

// getProjectRoot returns the absolute path to the project root directory
func getProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Failed to get current file path")
	}
	// Navigate up to the project root (2 levels up from test/testutil)
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// FixturePath returns the path of a file in test/testdata.
func FixturePath(name string) string {
	return filepath.Join(getProjectRoot(), "test", "testdata", name)
}

// ReadFixture returns the content of a file in test/testdata.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()
	path := FixturePath(name)
	logger.Debugf("Reading fixture from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return data
}

// SetupTestConfig writes a config file whose directories all live below a fresh temp dir.
// It returns the config path and the install root.
func SetupTestConfig(t *testing.T, extra string) (configPath, installRoot string) {
	t.Helper()

	tempDir := t.TempDir()
	installRoot = filepath.Join(tempDir, "emulators")
	configStr := fmt.Sprintf(`settings:
  install_root: %q
  staging_dir: %q
  hooks_dir: %q
  min_archive_size: 1
  platform: windows
%s`, installRoot, filepath.Join(tempDir, "staging"), filepath.Join(tempDir, "hooks"), extra)

	configPath = filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configStr), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath, installRoot
}

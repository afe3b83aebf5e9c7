package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		userAgent  string
		expectedUA string
	}{
		{
			name:       "default user agent",
			timeout:    time.Second,
			expectedUA: "emulatorx/1.0",
		},
		{
			name:       "custom user agent",
			timeout:    2 * time.Second,
			userAgent:  "test-agent/1.0",
			expectedUA: "test-agent/1.0",
		},
		{
			name:       "no timeout",
			expectedUA: "emulatorx/1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.timeout, tt.userAgent)
			require.NotNil(t, m)
			assert.Equal(t, tt.timeout, m.client.Timeout)
			assert.Equal(t, tt.expectedUA, m.userAgent)
		})
	}
}

func serveBytes(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		expectErr   error
		expectBytes int64
		expectFile  string
	}{
		{
			name: "successful download",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("test content"))
			},
			expectBytes: 12,
			expectFile:  "test content",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expectErr: pkgerrors.ErrDownloadFailed,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectErr: pkgerrors.ErrDownloadFailed,
		},
		{
			name: "body shorter than declared length",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Length", "1000")
				_, _ = w.Write(bytes.Repeat([]byte("x"), 900))
			},
			expectErr:   pkgerrors.ErrTruncatedDownload,
			expectBytes: 900,
		},
		{
			name: "unknown length",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("part one "))
				w.(http.Flusher).Flush()
				_, _ = w.Write([]byte("part two"))
			},
			expectBytes: 17,
			expectFile:  "part one part two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			dir := t.TempDir()
			dest := filepath.Join(dir, "out.bin")
			m := NewManager(5*time.Second, "")

			n, err := m.Fetch(context.Background(), srv.URL, dest, FetchOptions{})
			assert.Equal(t, tt.expectBytes, n)
			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
				assert.NoFileExists(t, dest)
				entries, readErr := os.ReadDir(dir)
				require.NoError(t, readErr)
				assert.Empty(t, entries, "temp files must be cleaned up")
				return
			}
			require.NoError(t, err)
			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, tt.expectFile, string(data))
		})
	}
}

func TestFetch_TruncatedReportsLengths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write(bytes.Repeat([]byte("x"), 900))
	}))
	defer srv.Close()

	_, err := NewManager(0, "").Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "a.7z"), FetchOptions{})

	var truncated *pkgerrors.TruncatedDownloadError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, int64(1000), truncated.Expected)
	assert.Equal(t, int64(900), truncated.Actual)
}

func TestFetch_FailureKeepsExistingDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "Dolphin.7z")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	_, err := NewManager(0, "").Fetch(context.Background(), srv.URL, dest, FetchOptions{})
	require.Error(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := NewManager(0, "custom/2.0").Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "f"), FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "custom/2.0", got)
}

func TestFetch_RelativeDestination(t *testing.T) {
	_, err := NewManager(0, "").Fetch(context.Background(), "http://127.0.0.1:1/", "relative/file", FetchOptions{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := serveBytes(t, []byte("never read"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "f")
	_, err := NewManager(0, "").Fetch(ctx, srv.URL, dest, FetchOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dest)
}

func TestFetchArchive_MinimumSize(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		minSize   int64
		expectErr bool
	}{
		{name: "one byte below default minimum", size: 999_999, expectErr: true},
		{name: "exactly default minimum", size: 1_000_000},
		{name: "custom minimum", size: 64, minSize: 64},
		{name: "below custom minimum", size: 63, minSize: 64, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveBytes(t, bytes.Repeat([]byte{0x37}, tt.size))
			dest := filepath.Join(t.TempDir(), "pkg.7z")

			n, err := NewManager(0, "").FetchArchive(context.Background(), srv.URL, dest, FetchOptions{MinSize: tt.minSize})
			assert.Equal(t, int64(tt.size), n)
			if tt.expectErr {
				var small *pkgerrors.SuspiciouslySmallDownloadError
				require.ErrorAs(t, err, &small)
				assert.Equal(t, int64(tt.size), small.Size)
				assert.NoFileExists(t, dest)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(dest)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), info.Size())
		})
	}
}

func TestFetch_ProgressEvents(t *testing.T) {
	srv := serveBytes(t, bytes.Repeat([]byte("a"), 4096))

	var events []Progress
	_, err := NewManager(0, "").Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "f"), FetchOptions{
		Label:    "Dolphin",
		Progress: func(p Progress) { events = append(events, p) },
	})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "Dolphin", last.Label)
	assert.Equal(t, 100, last.Percent)
	assert.Equal(t, int64(4096), last.BytesDone)
	assert.Equal(t, int64(4096), last.BytesTotal)
}

func TestProgressWriter_TenPercentSteps(t *testing.T) {
	var percents []int
	w := newProgressWriter("x", 1000, func(p Progress) { percents = append(percents, p.Percent) })

	chunk := make([]byte, 50)
	for i := 0; i < 20; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	w.finish()

	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, percents)
}

func TestProgressWriter_UnknownTotal(t *testing.T) {
	var events []Progress
	w := newProgressWriter("x", -1, func(p Progress) { events = append(events, p) })

	_, _ = w.Write(make([]byte, 300))
	assert.Empty(t, events)

	w.finish()
	require.Len(t, events, 1)
	assert.Equal(t, int64(-1), events[0].BytesTotal)
	assert.Equal(t, int64(300), events[0].BytesDone)
}

func TestFetchJSON(t *testing.T) {
	type rom struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}

	t.Run("decodes body", func(t *testing.T) {
		var accept, agent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept = r.Header.Get("Accept")
			agent = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`[{"name":"tetris.gb","size":32768},{"name":"zelda.gb","size":524288}]`))
		}))
		defer srv.Close()

		var got []rom
		require.NoError(t, NewManager(0, "").FetchJSON(context.Background(), srv.URL, &got))
		assert.Equal(t, []rom{{"tetris.gb", 32768}, {"zelda.gb", 524288}}, got)
		assert.Equal(t, "application/json", accept)
		assert.Equal(t, DefaultUserAgent, agent)
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"disk unavailable"}`))
		}))
		defer srv.Close()

		var got []rom
		err := NewManager(0, "").FetchJSON(context.Background(), srv.URL, &got)
		assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>not json</html>`))
		}))
		defer srv.Close()

		var got []rom
		err := NewManager(0, "").FetchJSON(context.Background(), srv.URL, &got)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})
}

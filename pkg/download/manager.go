// Package download streams remote packages and ROM files to local disk.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/emulatorx/internal/logger"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
)

// DefaultMinArchiveSize rejects archive payloads that are most likely error pages.
const DefaultMinArchiveSize int64 = 1_000_000

// maxJSONSize caps JSON documents read by FetchJSON.
const maxJSONSize = 8 << 20

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "emulatorx/1.0"

// ManagerImpl is an HTTP download manager. It performs no retries.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
// A zero timeout means downloads never time out.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch streams url into dest.
func (m *ManagerImpl) Fetch(ctx context.Context, url, dest string, opts FetchOptions) (int64, error) {
	return m.fetch(ctx, url, dest, opts, 0)
}

// FetchArchive streams url into dest and rejects payloads smaller than opts.MinSize.
func (m *ManagerImpl) FetchArchive(ctx context.Context, url, dest string, opts FetchOptions) (int64, error) {
	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = DefaultMinArchiveSize
	}
	return m.fetch(ctx, url, dest, opts, minSize)
}

// FetchJSON requests url with an application/json Accept header and decodes the body into v.
func (m *ManagerImpl) FetchJSON(ctx context.Context, url string, v any) error {
	resp, err := m.doRequest(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONSize)).Decode(v); err != nil {
		return pkgerrors.Wrapf(err, "invalid JSON from %s", url)
	}
	return nil
}

func (m *ManagerImpl) fetch(ctx context.Context, url, dest string, opts FetchOptions, minSize int64) (int64, error) {
	if dest == "" || !filepath.IsAbs(dest) {
		return 0, fmt.Errorf("download destination must be absolute: %s: %w", dest, pkgerrors.ErrInvalidPath)
	}
	label := opts.Label
	if label == "" {
		label = filepath.Base(dest)
	}

	resp, err := m.doRequest(ctx, url, "")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("downloading", logger.Fields{"url": url, "dest": dest, "length": resp.ContentLength})

	progress := newProgressWriter(label, resp.ContentLength, opts.Progress)
	tmpPath, written, err := writeBodyToTemp(resp, dest, progress)
	if err != nil {
		return written, err
	}

	if minSize > 0 && written < minSize {
		_ = os.Remove(tmpPath)
		return written, &pkgerrors.SuspiciouslySmallDownloadError{Size: written, Min: minSize}
	}

	if err := finalizeFile(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return written, err
	}
	return written, nil
}

func (m *ManagerImpl) doRequest(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &pkgerrors.DownloadFailedError{URL: url, Status: resp.StatusCode}
	}
	return resp, nil
}

// writeBodyToTemp copies the body into a temp file next to dest and checks it against the declared length.
// On any failure the temp file is removed.
func writeBodyToTemp(resp *http.Response, dest string, progress *progressWriter) (string, int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), fsutil.DirModeSecure); err != nil {
		return "", 0, pkgerrors.Wrap(err, "could not create download dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "dl-*.tmp")
	if err != nil {
		return "", 0, pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	declared := resp.ContentLength
	written, copyErr := io.Copy(io.MultiWriter(tmp, progress), resp.Body)
	if copyErr != nil && !(declared > 0 && errors.Is(copyErr, io.ErrUnexpectedEOF)) {
		return "", written, fail(pkgerrors.Wrap(copyErr, "could not write file"))
	}
	if declared > 0 && written != declared {
		logger.Debug("download length mismatch", logger.Fields{"expected": declared, "actual": written})
		return "", written, fail(&pkgerrors.TruncatedDownloadError{Expected: declared, Actual: written})
	}
	progress.finish()

	if err := tmp.Sync(); err != nil {
		return "", written, fail(pkgerrors.Wrap(err, "could not sync file"))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", written, pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, written, nil
}

func finalizeFile(tmpPath, dest string) error {
	if err := fsutil.Move(tmpPath, dest); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(dest, fsutil.FileModeDefault); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

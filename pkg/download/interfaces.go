//go:generate mockgen -destination=./mocks/manager.go -package=mocks . Manager

package download

import "context"

// Manager downloads remote content to local files.
type Manager interface {
	// Fetch streams url into dest and returns the number of bytes written.
	// A body shorter or longer than the declared Content-Length is a TruncatedDownloadError
	// and leaves no partial file behind.
	Fetch(ctx context.Context, url, dest string, opts FetchOptions) (int64, error)

	// FetchArchive is Fetch with an additional minimum size check for archive payloads.
	FetchArchive(ctx context.Context, url, dest string, opts FetchOptions) (int64, error)

	// FetchJSON decodes the JSON document at url into v.
	FetchJSON(ctx context.Context, url string, v any) error
}

// FetchOptions control a single download.
type FetchOptions struct {
	Label    string         // name used in progress events and logs; defaults to the destination file name
	MinSize  int64          // FetchArchive only; <= 0 means DefaultMinArchiveSize
	Progress func(Progress) // optional observer; never affects the outcome of the download
}

// Progress is emitted each time a download crosses a 10% boundary of its declared length.
// Downloads without a declared length emit a single event when the stream ends, with BytesTotal -1.
type Progress struct {
	Label      string
	BytesDone  int64
	BytesTotal int64
	Percent    int
}

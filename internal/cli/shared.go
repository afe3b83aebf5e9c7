package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/glorpus-work/emulatorx/pkg/download"
	"github.com/schollz/progressbar/v3"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// applyColorFlag turns colored output off when --no-color was given.
func applyColorFlag() {
	if NoColor != nil && *NoColor {
		color.NoColor = true
	}
}

func withSpinner(ctx context.Context, w io.Writer, desc string) (stop func()) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = spinner.Finish()
				return
			case <-ticker.C:
				_ = spinner.Add(1)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = spinner.Finish()
		})
	}
}

// downloadBars renders one progress bar per download label.
type downloadBars struct {
	mu   sync.Mutex
	out  io.Writer
	bars map[string]*progressbar.ProgressBar
}

func newDownloadBars(out io.Writer) *downloadBars {
	return &downloadBars{out: out, bars: make(map[string]*progressbar.ProgressBar)}
}

// Update is a download.FetchOptions progress callback.
func (d *downloadBars) Update(p download.Progress) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bar, ok := d.bars[p.Label]
	if !ok {
		bar = progressbar.NewOptions64(p.BytesTotal,
			progressbar.OptionSetWriter(d.out),
			progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", p.Label)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		d.bars[p.Label] = bar
	}
	_ = bar.Set64(p.BytesDone)
	if p.Percent >= 100 {
		_ = bar.Finish()
		delete(d.bars, p.Label)
	}
}

// Close finishes bars of downloads that never completed.
func (d *downloadBars) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for label, bar := range d.bars {
		_ = bar.Exit()
		delete(d.bars, label)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

package download

import "github.com/glorpus-work/emulatorx/internal/logger"

const progressStep = 10

// progressWriter counts bytes and reports every progressStep percent of total.
type progressWriter struct {
	label    string
	total    int64
	done     int64
	reported int
	notify   func(Progress)
}

func newProgressWriter(label string, total int64, notify func(Progress)) *progressWriter {
	return &progressWriter{label: label, total: total, notify: notify}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if p.total <= 0 {
		return len(b), nil
	}
	percent := int(p.done * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if step := percent / progressStep * progressStep; step > p.reported {
		p.reported = step
		p.emit(step)
	}
	return len(b), nil
}

// finish reports completion of a download whose length was unknown.
func (p *progressWriter) finish() {
	if p.total <= 0 {
		p.emit(100)
	}
}

func (p *progressWriter) emit(percent int) {
	total := p.total
	if total <= 0 {
		total = -1
	}
	ev := Progress{Label: p.label, BytesDone: p.done, BytesTotal: total, Percent: percent}
	logger.Debug("download progress", logger.Fields{
		"label":   ev.Label,
		"percent": ev.Percent,
		"bytes":   ev.BytesDone,
		"total":   ev.BytesTotal,
	})
	if p.notify != nil {
		p.notify(ev)
	}
}

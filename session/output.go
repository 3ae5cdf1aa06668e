package session

import (
	"bytes"
	"io"
)

// lineRecorder collects print output line by line and optionally copies
// it to another writer.
type lineRecorder struct {
	tee     io.Writer
	partial bytes.Buffer
	lines   []string
}

func (r *lineRecorder) Write(b []byte) (int, error) {
	if r.tee != nil {
		if _, err := r.tee.Write(b); err != nil {
			return 0, err
		}
	}
	r.partial.Write(b)
	for {
		idx := bytes.IndexByte(r.partial.Bytes(), '\n')
		if idx < 0 {
			break
		}
		r.lines = append(r.lines, string(r.partial.Next(idx + 1)[:idx]))
	}
	return len(b), nil
}

// flush records an unterminated trailing line.
func (r *lineRecorder) flush() {
	if r.partial.Len() > 0 {
		r.lines = append(r.lines, r.partial.String())
		r.partial.Reset()
	}
}

func (r *lineRecorder) reset() {
	r.partial.Reset()
	r.lines = nil
}

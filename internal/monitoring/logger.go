// Package monitoring holds the process-wide diagnostic logger and the
// conversion summary collected across cycles.
package monitoring

import (
	"bytes"
	"io"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Writer returns an io.Writer that forwards each complete line to Logf
// with tag prepended. It lets packages with their own *log.Logger streams
// share the process logger.
func Writer(tag string) io.Writer {
	return &lineWriter{tag: tag}
}

type lineWriter struct {
	tag string
	buf []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		Logf("%s%s", w.tag, w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

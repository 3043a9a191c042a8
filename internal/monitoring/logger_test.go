package monitoring

import (
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	assert.True(t, called, "custom logger was not called")

	called = false
	SetLogger(nil)
	Logf("test message")
	assert.False(t, called, "no-op logger should not reach the previous logger")
}

func TestWriterSplitsLines(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	w := Writer("[ops] ")
	_, _ = w.Write([]byte("first\nsec"))
	_, _ = w.Write([]byte("ond\n"))
	_, _ = w.Write([]byte("partial"))
	assert.Equal(t, []string{"[ops] first", "[ops] second"}, lines)

	logger := log.New(w, "", 0)
	logger.Printf("via %s", "log.Logger")
	assert.Equal(t, "[ops] partialvia log.Logger", lines[2])
}

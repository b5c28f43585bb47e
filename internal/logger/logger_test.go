package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture routes verbose output into a buffer and restores defaults
// when the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("chunked deck %s into %d slides", "q3-review", 14)

	assert.Equal(t, "[DEBUG] chunked deck q3-review into 14 slides\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("semantic pass returned %d candidates", 30)

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Retrieval")

	assert.Equal(t, "\n=== Retrieval ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Info("indexed %d elements", 42)

	assert.Equal(t, "[INFO] indexed 42 elements\n", buf.String())
}

func TestWarn(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Warn("embedding backend unavailable, storing without vectors")

	assert.Equal(t, "[WARN] embedding backend unavailable, storing without vectors\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			SetVerbose(true)
			Debug("worker %d embedded a batch", id)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

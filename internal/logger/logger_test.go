package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects the logger into a buffer for the duration of the test.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestSetVerbose_Toggles(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("opened %s", "raggamuffin.db") }, "[DEBUG] opened raggamuffin.db\n"},
		{"info", func() { Info("imported %d documents", 42) }, "[INFO] imported 42 documents\n"},
		{"warn", func() { Warn("skipping %s", "blob.bin") }, "[WARN] skipping blob.bin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLevels_SilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Debugw("hidden", "k", 1)
	Warnw("hidden", "uri", "a.txt")
	Section("Hidden")

	assert.Zero(t, buf.Len())
}

func TestSection_PrintsHeader(t *testing.T) {
	buf := capture(t, true)
	Section("Ingest")
	assert.Equal(t, "\n=== Ingest ===\n", buf.String())
}

func TestDebugw_WritesFields(t *testing.T) {
	buf := capture(t, true)

	Debugw("ingested", "documents", 3, "source", "file")

	out := buf.String()
	assert.Regexp(t, `^\[DEBUG\] ingested `, out)
	assert.Contains(t, out, `"documents": 3`)
	assert.Contains(t, out, `"source": "file"`)
}

func TestWarnw_WritesFields(t *testing.T) {
	buf := capture(t, true)

	Warnw("chunk gap", "document", "d1", "sequence", 4)

	out := buf.String()
	assert.Regexp(t, `^\[WARN\] chunk gap `, out)
	assert.Contains(t, out, `"document": "d1"`)
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("worker %d", i)
			_ = IsVerbose()
		}()
	}
	wg.Wait()
}

package logger

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")
	l.Errorf("broken")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO:  shown 2")
	assert.Contains(t, out, "WARN:  careful")
	assert.Contains(t, out, "ERROR: broken")
}

func TestVerboseLoggerShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewVerboseLogger(&buf)

	l.Debugf("details")
	assert.Contains(t, buf.String(), "DEBUG: details")
}

func TestStandardLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf).WithPrefix("[update] ")

	l.Infof("go")
	line := strings.TrimSpace(buf.String())

	// timestamp, then prefix, then level
	assert.True(t, strings.HasSuffix(line, "[update] INFO:  go"), "got %q", line)
}

func TestNopLogger(t *testing.T) {
	// Must not panic.
	NopLogger.Printf("x")
	NopLogger.Debugf("x")
	NopLogger.Infof("x")
	NopLogger.Warnf("x")
	NopLogger.Errorf("x")
	assert.Equal(t, NopLogger, NopLogger.WithPrefix("p"))
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debugf("dropped")
	l.Infof("one")
	l.Warnf("two %s", "parts")

	assert.Equal(t, "INFO:  one\nWARN:  two parts\n", l.String())

	data, err := l.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "INFO:  one\nWARN:  two parts\n", string(data))
	assert.Empty(t, l.String())
}

type recorder struct {
	lines []string
}

func (r *recorder) Logf(format string, v ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

func TestLogfLogger(t *testing.T) {
	r := &recorder{}
	l := NewLogfLogger(r)

	l.Warnf("w%d", 1)
	l.WithPrefix("p: ").Infof("i")

	assert.Equal(t, []string{"WARN:  w1", "p: INFO:  i"}, r.lines)
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(&Config{Level: "debug", Format: "json", Output: buf, ServiceName: "test"})
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := newBufferLogger(&buf).WithContext(context.Background())
	ctx = SetTenant(ctx, 7, "alice")
	ctx = SetJobID(ctx, 42)

	FromContext(ctx).Info("hello")

	line := lastLine(t, &buf)
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["service"])
	assert.EqualValues(t, 7, line[FieldBusinessID])
	assert.Equal(t, "alice", line[FieldUsername])
	assert.EqualValues(t, 42, line[FieldJobID])
	assert.Contains(t, line, "timestamp")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, GetDefault(), FromContext(context.Background()))
}

func TestEntry_MetricFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := newBufferLogger(&buf).WithContext(context.Background())

	base := With(Fields{FieldOperation: "list"})
	base.WithDuration(15).WithCount(3).Info(ctx, "listed %d", 3)

	line := lastLine(t, &buf)
	assert.Equal(t, "listed 3", line["message"])
	assert.Equal(t, "list", line[FieldOperation])
	assert.EqualValues(t, 15, line[FieldDurationMs])
	assert.EqualValues(t, 3, line[FieldCount])
	assert.NotContains(t, base.fields, FieldCount)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "warning", parseLevel("warn").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
}

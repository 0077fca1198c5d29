package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l := New("indexer", "debug", "json")
	assert.Equal(t, logrus.DebugLevel, l.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	l := New("indexer", "not-a-level", "text")
	assert.Equal(t, logrus.InfoLevel, l.Level)
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	l := NewFromEnv("indexer")
	assert.Equal(t, logrus.WarnLevel, l.Level)
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestNewFromEnv_Defaults(t *testing.T) {
	l := NewFromEnv("indexer")
	assert.Equal(t, logrus.InfoLevel, l.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	l.WithContext(ctx).Info("tick started")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "indexer", line["service"])
	assert.Equal(t, "trace-123", line["trace_id"])
}

func TestLogger_WithContext_NoTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	l.WithContext(context.Background()).Info("tick started")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "indexer", line["service"])
	assert.NotContains(t, line, "trace_id")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	l.WithFields(map[string]interface{}{"phase": "reindex"}).Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "reindex", line["phase"])
	assert.Equal(t, "indexer", line["service"])
}

func TestLogger_WithFields_Nil(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	l.WithFields(nil).Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "indexer", line["service"])
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	l.WithError(errors.New("connection reset")).Error("tick failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "connection reset", line["error"])
}

func TestLogger_SetOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New("indexer", "info", "json")
	l.SetOutput(&buf)

	l.Logger.Info("hello")
	assert.True(t, strings.Contains(buf.String(), "hello"))
}

func TestNewTraceID(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestWithTraceID_GetTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-abc")
	assert.Equal(t, "trace-abc", GetTraceID(ctx))
}

func TestGetTraceID_Absent(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestWithService_GetService(t *testing.T) {
	ctx := WithService(context.Background(), "bridge")
	assert.Equal(t, "bridge", GetService(ctx))
}

func TestGetService_Absent(t *testing.T) {
	assert.Equal(t, "", GetService(context.Background()))
}

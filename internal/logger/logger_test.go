package logger

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWith(Options{Environment: "production", Level: "warn", Out: &buf})
	assert.Equal(t, logrus.WarnLevel, log.Logger.GetLevel())

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Component("loader").Warn("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "loader", line["component"])
}

func TestNewWithDefaultsToInfoText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWith(Options{Out: &buf})
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
	_, isText := log.Logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/valores", nil)
	assert.Len(t, RequestID(r), 36)

	r.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", RequestID(r))
}

func TestWithRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWith(Options{Environment: "prod", Out: &buf})
	r := httptest.NewRequest("POST", "/upload", nil)
	r.Header.Set("X-Request-ID", "req-1")

	log.WithRequest(r).Info("hit")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["req_id"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/upload", line["path"])
}

func TestWithErrorNil(t *testing.T) {
	log := NewWith(Options{Out: &bytes.Buffer{}})
	assert.Same(t, log.Entry, log.WithError(nil))
}

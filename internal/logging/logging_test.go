package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", "json")

	logger.WithFields(logrus.Fields{"categories": 3}).Info("parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed", entry["msg"])
	assert.Equal(t, float64(3), entry["categories"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewWithWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "loud", "text")

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliLoggerPrintsBareMessages(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewCliLogger(&stdout, nil, false)

	logger.Infof("Checking username @%s...", "alice")
	logger.Debug("hidden")

	assert.Equal(t, "Checking username @alice...\n", stdout.String())
}

func TestCliLoggerVerbose(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewCliLogger(&stdout, nil, true)

	logger.Debug("page fetched")

	assert.Equal(t, "DEBUG\tpage fetched\n", stdout.String())
}

func TestCliLoggerFile(t *testing.T) {
	var stdout, file bytes.Buffer
	logger := NewCliLogger(&stdout, &file, false)

	logger.Debugw("page fetched", "page", 2)

	assert.Empty(t, stdout.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &entry))
	assert.Equal(t, "page fetched", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(2), entry["page"])
}

func TestCliLoggerHidesFields(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewCliLogger(&stdout, nil, false).With("run_id", "abc")

	logger.Infow("Found 2 followings. Saving to file...", "count", 2)

	assert.Equal(t, "Found 2 followings. Saving to file...\n", stdout.String())
}

func TestDebugLoggerDemotesErrors(t *testing.T) {
	var stdout bytes.Buffer
	logger := DebugLogger{SugaredLogger: NewCliLogger(&stdout, nil, false)}

	logger.Errorf("GET %s failed", "/alice")
	logger.Warnf("retrying")
	assert.Empty(t, stdout.String())

	stdout.Reset()
	logger = DebugLogger{SugaredLogger: NewCliLogger(&stdout, nil, true)}
	logger.Errorf("GET %s failed", "/alice")
	assert.Equal(t, "DEBUG\tGET /alice failed\n", stdout.String())
}

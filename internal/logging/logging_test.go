package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/logging"
)

func TestProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "prod")

	log.Debug("hidden")
	log.Info("shown", "table", "student-table-body")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "student-table-body", line["table"])
}

func TestDevWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, "dev").Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

package launch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCommand(t *testing.T) {
	cmd := openCommand("/tmp/somewhere")
	require.NotEmpty(t, cmd.Args)
	assert.Contains(t, cmd.Args, "/tmp/somewhere")
}

func TestOpen_EmptyTargetLogsAndReturns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	assert.NotPanics(t, func() { OpenPath("", logger) })
	assert.Contains(t, buf.String(), "nothing to open")
}

func TestOpen_NilLoggerDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { OpenURL("", nil) })
}

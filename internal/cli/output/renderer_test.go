package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode(), "a buffer is not a terminal")

	r = NewRenderer(&buf, &buf, ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestRenderer_MarkdownOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeMarkdown)

	r.Header(2, "Menu")
	r.KV("project", "demo")

	out := buf.String()
	assert.Contains(t, out, "## Menu")
	assert.Contains(t, out, "- **project**: demo")
}

func TestRenderer_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	r.KV("project", "demo")
	assert.Contains(t, buf.String(), "project:")
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeMarkdown)

	r.Table([]string{"app", "command"}, [][]string{
		{"pipeline", "Apps/Loader"},
		{"", "Settings"},
	})

	out := buf.String()
	assert.Contains(t, out, "| app |")
	assert.Contains(t, out, "Apps/Loader")
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)

	require.NoError(t, r.JSON(map[string]string{"project": "demo"}))
	assert.Contains(t, buf.String(), `"project": "demo"`)
}

func TestRenderer_ErrorGoesToErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Errorf("switch failed: %s", "rejected")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "switch failed: rejected")
}

package suite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSuite = `
command: textract
cases:
  - input: docx/i_heart_word.docx
    digest: 35b515d5e9d68af496f9233eb81547be
  - name: powerpoint smoke test
    input: pptx/i_love_powerpoint.pptx
    digest: a5bc9cbe9284d4c81c1106a8137e4a4d
`

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesSuiteFile(t *testing.T) {
	path := writeSuite(t, sampleSuite)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "textract", s.Command)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, "docx/i_heart_word.docx", s.Cases[0].Input)
	assert.Equal(t, "35b515d5e9d68af496f9233eb81547be", s.Cases[0].Digest)
	assert.Equal(t, "powerpoint smoke test", s.Cases[1].Label())
}

// Inputs resolve against the suite file's directory, not the caller's
// working directory.
func TestLoad_DirIsSuiteFileDirectory(t *testing.T) {
	path := writeSuite(t, sampleSuite)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), s.Dir)
}

func TestLoad_DefaultsCommand(t *testing.T) {
	path := writeSuite(t, `
cases:
  - input: sample.docx
    digest: 35b515d5e9d68af496f9233eb81547be
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCommand, s.Command)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := writeSuite(t, "cases: [not: {valid")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing suite")
}

func TestLoad_RejectsInvalidSuite(t *testing.T) {
	path := writeSuite(t, `
cases:
  - input: sample.docx
    digest: tooshort
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "digest")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading suite")
}

func TestMarshal_RoundTripsThroughLoad(t *testing.T) {
	s, err := Load(writeSuite(t, sampleSuite))
	require.NoError(t, err)

	out, err := Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "dir:", "Dir must not be serialized")

	reloaded, err := Load(writeSuite(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, s.Cases, reloaded.Cases)
	assert.Equal(t, s.Command, reloaded.Command)
}

func TestBuiltin_PinnedTable(t *testing.T) {
	s := Builtin()
	require.NoError(t, s.Validate())
	assert.Equal(t, "textract", s.Command)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, "docx/i_heart_word.docx", s.Cases[0].Input)
	assert.Equal(t, "35b515d5e9d68af496f9233eb81547be", s.Cases[0].Digest)
	assert.Equal(t, "pptx/i_love_powerpoint.pptx", s.Cases[1].Input)
	assert.Equal(t, "a5bc9cbe9284d4c81c1106a8137e4a4d", s.Cases[1].Digest)
	assert.True(t, strings.HasSuffix(s.Dir, "examples"))
}

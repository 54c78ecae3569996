package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/reoring/calfields"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSortCmd(t *testing.T) {
	out, err := run(t, "sort", "year", "month", "day", "10", "9")
	require.NoError(t, err)
	assert.Equal(t, `["9","10","day","month","year"]`+"\n", out)
}

func TestSortCmd_YAML(t *testing.T) {
	out, err := run(t, "sort", "--format", "yaml", "month", "day")
	require.NoError(t, err)
	assert.Equal(t, "- day\n- month\n", out)
}

func TestSortCmd_Rejects(t *testing.T) {
	_, err := run(t, "sort", "year", "constructor")
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeReservedField))

	_, err = run(t, "sort", "day", "day")
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeDuplicateField))
}

func TestMergeCmd(t *testing.T) {
	out, err := run(t, "merge", "--left", "day,year", "--right", "month,year")
	require.NoError(t, err)
	assert.Equal(t, `["day","month","year"]`+"\n", out)
}

func TestPrepareCmd_Generic(t *testing.T) {
	path := writeFile(t, "date.json", `{"year": `)
	_, err := run(t, "prepare", path)
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeParseError))

	path = writeFile(t, "date.json", `{"day": 5, "monthCode": "M03"}`)
	out, err := run(t, "prepare", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"fields":{"day":5,"monthCode":"M03"}`)
}

func TestPrepareCmd_Modes(t *testing.T) {
	path := writeFile(t, "date.json", `{"day": 5.7, "monthCode": "M03"}`)

	out, err := run(t, "prepare", path, "--mode", "typed", "--fields", "day,hour,monthCode")
	require.NoError(t, err)
	assert.Contains(t, out, `"fields":{"day":5,"hour":0,"monthCode":"M03"}`)

	_, err = run(t, "prepare", path, "--mode", "required", "--required", "month")
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeMissingRequired))

	_, err = run(t, "prepare", path, "--mode", "partial", "--fields", "era,eraYear")
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeNoRecognizedFields))

	_, err = run(t, "prepare", path, "--mode", "bogus")
	require.Error(t, err)
}

func TestPrepareCmd_AddFields(t *testing.T) {
	path := writeFile(t, "date.json", `{"year": 2024, "monthCode": "M03", "day": 5}`)

	out, err := run(t, "prepare", path, "--fields", "year", "--add", "monthCode,day")
	require.NoError(t, err)
	assert.Contains(t, out, `"fields":{"day":5,"monthCode":"M03","year":2024}`)

	_, err = run(t, "prepare", path, "--fields", "day,year", "--add", "day")
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeDuplicateField))

	_, err = run(t, "prepare", path, "--add", "weekday")
	assert.ErrorContains(t, err, "not a canonical field")

	_, err = run(t, "prepare", path, "--fields", "year", "--add", "day,day")
	assert.ErrorContains(t, err, "listed twice")
}

func TestPrepareCmd_YAMLInputAndOutput(t *testing.T) {
	path := writeFile(t, "date.yaml", "year: 2024\nmonth: 3\n")
	out, err := run(t, "prepare", path, "--mode", "partial", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "fields:\n  month: 3\n  year: 2024\n")
}

func TestPrepareCmd_ManyFilesKeepOrder(t *testing.T) {
	var files []string
	for _, day := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		files = append(files, writeFile(t, "d"+day+".json", `{"day": `+day+`}`))
	}
	out, err := run(t, append([]string{"prepare", "--mode", "partial"}, files...)...)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, len(files))
	assert.Contains(t, string(lines[0]), `{"day":1}`)
	assert.Contains(t, string(lines[9]), `{"day":10}`)
}

func TestPrepareCmd_Config(t *testing.T) {
	cfg := writeFile(t, "calfields.yaml", `
fields: [day, month]
required: [month]
mode: required
decode:
  onDuplicateKey: error
`)
	path := writeFile(t, "date.json", `{"day": 1, "month": 2}`)
	out, err := run(t, "prepare", "--config", cfg, path)
	require.NoError(t, err)
	assert.Contains(t, out, `"fields":{"day":1,"month":2}`)

	dup := writeFile(t, "dup.json", `{"day": 1, "day": 2, "month": 2}`)
	_, err = run(t, "prepare", "--config", cfg, dup)
	require.Error(t, err)
	assert.True(t, calfields.HasCode(err, calfields.CodeDuplicateKey))

	bad := writeFile(t, "bad.yaml", "nope: 1\n")
	_, err = run(t, "prepare", "--config", bad, path)
	require.Error(t, err)
}

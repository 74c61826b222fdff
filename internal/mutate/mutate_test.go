package mutate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cfg.cnf")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestModifyReplacesMarker(t *testing.T) {
	p := writeConfig(t, "old_value=1")
	var m Mutator

	n, err := m.Modify(p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "new_value=1", readFile(t, p))
}

func TestModifyReplacesAllOccurrences(t *testing.T) {
	p := writeConfig(t, "a=old_value\nb=old_value\nc=keep\n")
	var m Mutator

	n, err := m.Modify(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "a=new_value\nb=new_value\nc=keep\n", readFile(t, p))
}

func TestModifyIsIdempotent(t *testing.T) {
	p := writeConfig(t, "old_value=1\n[bus]\nold_value=2\n")
	var m Mutator

	_, err := m.Modify(p)
	require.NoError(t, err)
	once := readFile(t, p)

	n, err := m.Modify(p)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, once, readFile(t, p))
}

func TestModifyTruncatesShorterResult(t *testing.T) {
	p := writeConfig(t, "LONG_MARKER_TOKEN;tail")
	m := Mutator{Replacements: []Replacement{{Old: "LONG_MARKER_TOKEN", New: "x"}}}

	_, err := m.Modify(p)
	require.NoError(t, err)
	assert.Equal(t, "x;tail", readFile(t, p))
}

func TestModifyAppliesReplacementsInOrder(t *testing.T) {
	p := writeConfig(t, "speed=250")
	m := Mutator{Replacements: []Replacement{
		{Old: "250", New: "500"},
		{Old: "500", New: "1000"},
		{Old: "", New: "ignored"},
	}}

	n, err := m.Modify(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "speed=1000", readFile(t, p))
}

func TestModifyMissingFile(t *testing.T) {
	var m Mutator
	_, err := m.Modify(filepath.Join(t.TempDir(), "missing.cnf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigAccess)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModifyReadOnlyFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	p := writeConfig(t, "old_value=1")
	require.NoError(t, os.Chmod(p, 0444))

	var m Mutator
	_, err := m.Modify(p)
	assert.ErrorIs(t, err, ErrConfigAccess)
	assert.Equal(t, "old_value=1", readFile(t, p))
}

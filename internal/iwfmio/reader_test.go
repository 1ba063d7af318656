package iwfmio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment("C this is a comment"))
	assert.True(t, IsComment("c lowercase too"))
	assert.True(t, IsComment("* starred"))
	assert.True(t, IsComment("# hashed"))
	assert.True(t, IsComment(""))
	assert.False(t, IsComment("  data.dat"))
	assert.False(t, IsComment(" 10 20 30"))
}

func TestStripInline(t *testing.T) {
	assert.Equal(t, "data.txt", StripInline("  data.txt  ! inline comment"))
	assert.Equal(t, "10 20", StripInline(" 10 20 / field description"))
	assert.Equal(t, "plain", StripInline("plain"))
}

func TestSkipAhead(t *testing.T) {
	lines := []string{
		"C header comment",
		"C another",
		"  first.dat",
		"* separator",
		"  second.dat",
	}

	assert.Equal(t, 2, SkipAhead(lines, 0, 0))
	assert.Equal(t, 4, SkipAhead(lines, 0, 1))
	assert.Equal(t, -1, SkipAhead(lines, 0, 2))
}

func TestNextValue(t *testing.T) {
	lines := []string{
		"C comment line",
		"  data.txt  ! inline comment",
		"  10 20 30",
	}

	v, idx, err := NextValue(lines, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "data.txt", v)
	assert.Equal(t, 1, idx)

	v, idx, err = NextValue(lines, idx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "20", v)
	assert.Equal(t, 2, idx)

	_, _, err = NextValue(lines, idx, 0, 0)
	assert.Error(t, err, "reading past the last line should fail")
}

func TestNextValue_MissingColumn(t *testing.T) {
	lines := []string{" 10 20"}
	_, _, err := NextValue(lines, -1, 5, 0)
	assert.Error(t, err)
}

func TestReadValuesToMap(t *testing.T) {
	lines := []string{
		"C groundwater component files",
		"  np_crops.dat",
		"  p_crops.dat",
		"  urban.dat",
	}
	keys := []string{"np_file", "p_file", "ur_file"}

	m, idx, err := ReadValuesToMap(lines, 0, keys, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	assert.Equal(t, map[string]string{
		"np_file": "np_crops.dat",
		"p_file":  "p_crops.dat",
		"ur_file": "urban.dat",
	}, m)
}

func TestReadLines_NormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.dat")
	require.NoError(t, os.WriteFile(path, []byte("C header\r\n  a.dat\r\n  b.dat\r\n"), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"C header", "  a.dat", "  b.dat"}, lines)
}

func TestReadLines_MissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}

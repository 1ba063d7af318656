package hydrograph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iwfmcli/internal/errors"
)

// writeHydrographFile writes a hydrograph file with the standard
// nine-line header followed by the given data lines.
func writeHydrographFile(t *testing.T, lines ...string) string {
	t.Helper()

	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteString("C header line\n")
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	path := filepath.Join(t.TempDir(), "gwhyd.out")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("01/02/2006", s)
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	path := writeHydrographFile(t,
		"10/31/1990_24:00  100.5  -12.25",
		"11/30/1990_24:00  101.0  -12.50",
		"12/31/1990_24:00  102.5  -13.00",
	)

	sh, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, sh.Len())
	assert.Equal(t, 2, sh.Columns())
	assert.True(t, date(t, "10/31/1990").Equal(sh.StartDate()))
	assert.True(t, date(t, "12/31/1990").Equal(sh.EndDate()))
	assert.Equal(t, 100.5, sh.Head(0, 0))
	assert.Equal(t, -13.00, sh.Head(2, 1))
	assert.True(t, date(t, "11/30/1990").Equal(sh.Date(1)))
}

func TestLoad_ShortFileYieldsEmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.out")
	require.NoError(t, os.WriteFile(path, []byte("C one\nC two\nC three\n"), 0644))

	sh, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, sh.Len())
	assert.Equal(t, 0, sh.Columns())
	assert.True(t, sh.StartDate().IsZero())
	assert.True(t, sh.EndDate().IsZero())
}

func TestLoad_MalformedValue(t *testing.T) {
	path := writeHydrographFile(t, "10/31/1990_24:00  not-a-number")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
}

func TestLoad_MalformedDate(t *testing.T) {
	path := writeHydrographFile(t, "13/45/1990  100.0")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeHydrographFile(t,
		"10/31/1990_24:00  100.5  -12.25",
		"11/30/1990_24:00  101.0  -12.50",
	)

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	require.Equal(t, a.Columns(), b.Columns())
	for i := 0; i < a.Len(); i++ {
		assert.True(t, a.Date(i).Equal(b.Date(i)))
		for j := 0; j < a.Columns(); j++ {
			assert.Equal(t, a.Head(i, j), b.Head(i, j))
		}
	}
}

func TestHeadAt_ExactDateReturnsRecordedValue(t *testing.T) {
	path := writeHydrographFile(t,
		"10/31/1990_24:00  100.5",
		"11/30/1990_24:00  101.0",
		"12/31/1990_24:00  102.5",
	)
	sh, err := Load(path)
	require.NoError(t, err)

	for i := 0; i < sh.Len(); i++ {
		v, err := sh.HeadAt(sh.Date(i), 0)
		require.NoError(t, err)
		assert.Equal(t, sh.Head(i, 0), v, "no interpolation drift at recorded dates")
	}
}

func TestHeadAt_MidpointInterpolation(t *testing.T) {
	// 01/01 and 01/21 bracket 01/11 exactly; the recorded middle row
	// coincides with the midpoint, so lookup must return its value.
	path := writeHydrographFile(t,
		"01/01/2000  100.0",
		"01/11/2000  150.0",
		"01/21/2000  200.0",
	)
	sh, err := Load(path)
	require.NoError(t, err)

	v, err := sh.HeadAt(date(t, "01/11/2000"), 0)
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)

	// Between rows: 01/06 is halfway between 01/01 and 01/11.
	v, err = sh.HeadAt(date(t, "01/06/2000"), 0)
	require.NoError(t, err)
	assert.InDelta(t, 125.0, v, 1e-12)
}

func TestHeadAt_FractionalInterpolation(t *testing.T) {
	path := writeHydrographFile(t,
		"01/01/2000  10.0",
		"01/31/2000  40.0",
	)
	sh, err := Load(path)
	require.NoError(t, err)

	// 10 of 30 days elapsed: 10 + (40-10)*(10/30) = 20.
	v, err := sh.HeadAt(date(t, "01/11/2000"), 0)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, v, 1e-12)
}

func TestHeadAt_OutOfRange(t *testing.T) {
	path := writeHydrographFile(t,
		"10/31/1990  100.5",
		"12/31/1990  102.5",
	)
	sh, err := Load(path)
	require.NoError(t, err)

	_, err = sh.HeadAt(date(t, "10/30/1990"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	_, err = sh.HeadAt(date(t, "01/01/1991"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestHeadAt_EmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.out")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	sh, err := Load(path)
	require.NoError(t, err)

	_, err = sh.HeadAt(date(t, "01/01/2000"), 0)
	assert.ErrorIs(t, err, errors.ErrNotLoaded)
}

func TestHead_OutOfRangePanics(t *testing.T) {
	path := writeHydrographFile(t, "10/31/1990  100.5")
	sh, err := Load(path)
	require.NoError(t, err)

	assert.Panics(t, func() { sh.Head(5, 0) })
	assert.Panics(t, func() { sh.Head(0, 5) })
}

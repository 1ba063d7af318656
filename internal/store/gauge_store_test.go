package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iwfmcli/internal/fetch"
)

func newTestStore(t *testing.T) *SQLiteGaugeStore {
	t.Helper()
	s, err := NewSQLiteGaugeStore(filepath.Join(t.TempDir(), "gauges.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTable(fetchedAt time.Time) *fetch.StationTable {
	return &fetch.StationTable{
		Station: "FPT",
		Headers: []string{"DATE", "STAGE (FT)", "FLOW (CFS)"},
		Rows: [][]string{
			{"10/31/1990", "12.5", "1,250"},
			{"11/01/1990", "12.7", "1,310"},
		},
		FetchedAt: fetchedAt,
	}
}

func TestSaveAndGetStationTable(t *testing.T) {
	s := newTestStore(t)
	fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveTable(sampleTable(fetchedAt)))

	got, err := s.GetStationTable("FPT")
	require.NoError(t, err)
	assert.Equal(t, "FPT", got.Station)
	assert.Equal(t, []string{"DATE", "STAGE (FT)", "FLOW (CFS)"}, got.Headers)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"10/31/1990", "12.5", "1,250"}, got.Rows[0])
	assert.True(t, fetchedAt.Equal(got.FetchedAt))
}

func TestSaveTable_UpsertsByRowKey(t *testing.T) {
	s := newTestStore(t)
	first := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTable(sampleTable(first)))

	// Refetch with a revised value for an existing date.
	updated := sampleTable(first.Add(24 * time.Hour))
	updated.Rows[0][1] = "13.0"
	require.NoError(t, s.SaveTable(updated))

	got, err := s.GetStationTable("FPT")
	require.NoError(t, err)
	require.Len(t, got.Rows, 2, "same dates should update, not duplicate")
	assert.Equal(t, "13.0", got.Rows[0][1])
}

func TestGetStationTable_Missing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetStationTable("NOPE")
	assert.Error(t, err)
}

func TestStations(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	a := sampleTable(now)
	b := sampleTable(now)
	b.Station = "VON"
	require.NoError(t, s.SaveTable(a))
	require.NoError(t, s.SaveTable(b))

	stations, err := s.Stations()
	require.NoError(t, err)
	assert.Equal(t, []string{"FPT", "VON"}, stations)
}

func TestLastFetchTime(t *testing.T) {
	s := newTestStore(t)
	fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTable(sampleTable(fetchedAt)))

	got, err := s.LastFetchTime("FPT")
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(got))

	_, err = s.LastFetchTime("NOPE")
	assert.Error(t, err)
}

package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "iwfmcli/internal/errors"
	"iwfmcli/internal/hydrograph"
	custommiddleware "iwfmcli/internal/middleware"
)

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

func newTestHandler(t *testing.T) (*HydrographHandler, *hydrograph.Cache) {
	t.Helper()
	logger := slog.Default()
	cache := hydrograph.NewCache()
	return NewHydrographHandler(cache, logger, apierrors.NewErrorHandler(logger, false)), cache
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoadFile(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t,
		"10/31/1990_24:00  100.5  -12.25",
		"11/30/1990_24:00  101.0  -12.50",
	)

	rec := postJSON(t, handler.Routes(), "/load", FileRequest{File: path})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var info FileInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 2, info.Rows)
	assert.Equal(t, 2, info.Columns)
	assert.Equal(t, "10/31/1990", info.StartDate)
	assert.Equal(t, "11/30/1990", info.EndDate)
}

func TestLoadFile_MissingFileField(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.Routes(), "/load", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadFile_UnreadablePath(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.Routes(), "/load", FileRequest{File: "/nonexistent/gwhyd.out"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetValue(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t,
		"01/01/2000  10.0",
		"01/31/2000  40.0",
	)

	rec := postJSON(t, handler.Routes(), "/value", ValueRequest{
		File:   path,
		Date:   "01/11/2000",
		Column: 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ValueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 20.0, resp.Value, 1e-12)
	assert.Equal(t, "01/11/2000", resp.Date)
}

func TestGetValue_OutOfRange(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t,
		"01/01/2000  10.0",
		"01/31/2000  40.0",
	)

	rec := postJSON(t, handler.Routes(), "/value", ValueRequest{
		File:   path,
		Date:   "06/01/2000",
		Column: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "after simulation end date")
}

func TestGetValue_BadDate(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t, "01/01/2000  10.0")

	rec := postJSON(t, handler.Routes(), "/value", ValueRequest{
		File:   path,
		Date:   "2000-01-01",
		Column: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetValue_ColumnOutOfRange(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t, "01/01/2000  10.0", "02/01/2000  20.0")

	rec := postJSON(t, handler.Routes(), "/value", ValueRequest{
		File:   path,
		Date:   "01/15/2000",
		Column: 7,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetValue_ErrorOutcomeCounted(t *testing.T) {
	handler, _ := newTestHandler(t)
	path := writeHydrographFile(t,
		"01/01/2000  10.0",
		"01/31/2000  40.0",
	)

	before := testutil.ToFloat64(valueQueries.WithLabelValues("error"))

	rec := postJSON(t, handler.Routes(), "/value", ValueRequest{
		File:   path,
		Date:   "06/01/2000",
		Column: 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(valueQueries.WithLabelValues("error")))
}

func TestHandleError_TraceIDFromRequestID(t *testing.T) {
	handler, _ := newTestHandler(t)
	routes := custommiddleware.RequestID(handler.Routes())

	buf, err := json.Marshal(FileRequest{File: "/nonexistent/gwhyd.out"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/load", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-12345")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "req-12345", problem["trace_id"])
}

func TestListLoadedAndInvalidate(t *testing.T) {
	handler, cache := newTestHandler(t)
	path := writeHydrographFile(t, "01/01/2000  10.0")

	_, err := cache.Load(path)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Hydrographs []FileInfo `json:"hydrographs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Hydrographs, 1)

	rec = postJSON(t, handler.Routes(), "/invalidate", FileRequest{File: path})
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := cache.Get(path)
	assert.False(t, ok)
}

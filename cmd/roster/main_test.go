package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/domain"
)

// fakeAPI 按照服务端的响应格式返回固定的班次、员工，排班表保存在内存中
type fakeAPI struct {
	mu    sync.Mutex
	grid  domain.ScheduleGrid
	saves int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var data any
	switch {
	case r.URL.Path == "/api/shifts":
		data = []domain.ShiftDefinition{
			{Key: "HD", DisplayName: "HD", Category: domain.ShiftCategoryGeneral, SortOrder: 1},
			{Key: "ICU_night", DisplayName: "ICU night", Category: domain.ShiftCategoryCriticalCare, SortOrder: 1},
		}
	case r.URL.Path == "/api/staff":
		data = []domain.Staff{
			{ID: "S1", Name: "Anna"},
			{ID: "S2", Name: "Carl", Capabilities: []string{"ICU_night"}},
		}
	case r.URL.Path == "/api/wishes":
		data = []domain.Wish{}
	case r.URL.Path == "/api/schedule" && r.Method == http.MethodGet:
		f.mu.Lock()
		if f.grid != nil {
			data = f.grid
		}
		f.mu.Unlock()
	case r.URL.Path == "/api/schedule" && r.Method == http.MethodPost:
		var req struct {
			Schedule domain.ScheduleGrid `json:"schedule"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.grid = req.Schedule
		f.saves++
		f.mu.Unlock()
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "", "data": data})
}

func setup(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("ROSTER_API_URL", srv.URL)
	t.Setenv("ROSTER_TOKEN", "token")
	return api
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--month", "4", "--year", "2024"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestShowEmptyMonth(t *testing.T) {
	setup(t)

	out, err := run(t, "show")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 31)
	assert.Regexp(t, `^Date\s+Weekday\s+ICU night\s+HD$`, string(lines[0]))
	assert.Regexp(t, `^2024-04-01\s+Monday\s+·\s+·$`, string(lines[1]))
}

func TestAssignAndClear(t *testing.T) {
	api := setup(t)

	out, err := run(t, "assign", "2024-04-01", "HD", "S1")
	require.NoError(t, err)
	assert.Contains(t, out, "S1")

	require.Equal(t, 1, api.saves)
	cell, ok := api.grid[0].Cell("HD")
	require.True(t, ok)
	assert.Equal(t, "S1", cell.Staff())
	assert.Equal(t, domain.NoteManual, cell.Note)

	out, err = run(t, "show")
	require.NoError(t, err)
	assert.Regexp(t, `2024-04-01\s+Monday\s+·\s+Anna`, out)

	_, err = run(t, "clear", "2024-04-01", "HD")
	require.NoError(t, err)
	cell, ok = api.grid[0].Cell("HD")
	require.True(t, ok)
	assert.False(t, cell.IsStaffed())
}

func TestAssignRejectedIsNotSaved(t *testing.T) {
	api := setup(t)

	_, err := run(t, "assign", "2024-13-01", "HD", "S1")
	assert.Error(t, err)
	assert.Zero(t, api.saves)
}

func TestImportReportsUnresolvedNames(t *testing.T) {
	api := setup(t)

	path := filepath.Join(t.TempDir(), "april.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Day,Weekday,ICU night,HD\n2024-04-02,2,Tuesday,Bob,Anna\n"), 0o644))

	out, err := run(t, "import", path, "--overwrite=false")
	require.NoError(t, err)
	assert.Contains(t, out, `找不到员工 "Bob"`)

	require.Equal(t, 1, api.saves)
	i := api.grid.IndexOf("2024-04-02")
	require.GreaterOrEqual(t, i, 0)
	cell, ok := api.grid[i].Cell("HD")
	require.True(t, ok)
	assert.Equal(t, "S1", cell.Staff())
	assert.Equal(t, domain.NoteMerged, cell.Note)
}

func TestExport(t *testing.T) {
	setup(t)

	out, err := run(t, "export", "--format", "csv", "--output", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Date,Day,Weekday,ICU night,HD\n")

	_, err = run(t, "export", "--format", "xlsx", "--output", "")
	assert.ErrorContains(t, err, "--output")

	path := filepath.Join(t.TempDir(), "april.xlsx")
	_, err = run(t, "export", "--format", "xlsx", "--output", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCheckCleanGrid(t *testing.T) {
	setup(t)

	out, err := run(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "没有发现问题\n", out)
}

func TestAssignCapabilityMismatch(t *testing.T) {
	api := setup(t)

	_, err := run(t, "assign", "2024-04-01", "HD", "S2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capability mismatch")
	assert.Zero(t, api.saves)

	_, err = run(t, "assign", "2024-04-01", "ICU_night", "S2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.saves)
}

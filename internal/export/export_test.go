package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/importer"
	"github.com/ward-roster/roster/backend/internal/roster"
	"github.com/xuri/excelize/v2"
)

func fixtures(t *testing.T) (*catalog.Catalog, *domain.Directory, domain.ScheduleGrid) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	dir := domain.NewDirectory([]domain.Staff{
		{ID: "S1", Name: "Berg, Anna"},
		{ID: "S2", Name: "Ben Kurz"},
	})

	grid, err := roster.EmptyGridFor(4, 2024)
	require.NoError(t, err)
	grid[0].Shifts["ICU_morning"] = domain.Assignment{StaffID: domain.StaffRef("S1"), Note: domain.NoteDragDrop}
	grid[0].Shifts["HD"] = domain.Assignment{Note: "open"}
	grid[1].Shifts["ICU_night"] = domain.Assignment{StaffID: domain.StaffRef("S2")}
	grid[2].Shifts["OA"] = domain.Assignment{StaffID: domain.StaffRef("ghost")}
	return c, dir, grid
}

type tuple struct {
	Date, Key, Staff string
}

func staffed(grid domain.ScheduleGrid) []tuple {
	var out []tuple
	for _, day := range grid {
		for _, key := range []string{"ICU_morning", "ICU_midday", "ICU_night", "HD", "OA", "Rufdienst",
			"Transplant_explant_1", "Transplant_explant_2", "Transplant_implant"} {
			if a, ok := day.Cell(key); ok && a.IsStaffed() {
				out = append(out, tuple{day.Date, key, a.Staff()})
			}
		}
	}
	return out
}

func TestDelimitedTextLayout(t *testing.T) {
	c, dir, grid := fixtures(t)

	out, err := DelimitedText(grid, c, dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 31)

	wantHeader := []string{"Date", "Day", "Weekday"}
	for _, key := range c.OrderedKeys() {
		wantHeader = append(wantHeader, c.DisplayName(key))
	}
	assert.Equal(t, strings.Join(wantHeader, ","), lines[0])

	assert.True(t, strings.HasPrefix(lines[1], `2024-04-01,1,Monday,"Berg, Anna",None,None,None,`))
	assert.True(t, strings.HasPrefix(lines[2], "2024-04-02,2,Tuesday,None,None,Ben Kurz,"))
	assert.NotContains(t, lines[3], "ghost")
}

func TestDelimitedTextKeepsGridOrder(t *testing.T) {
	c, dir, grid := fixtures(t)
	grid[0], grid[1] = grid[1], grid[0]

	out, err := DelimitedText(grid, c, dir)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[1], "2024-04-02"))
	assert.True(t, strings.HasPrefix(lines[2], "2024-04-01"))
}

func TestDelimitedTextRejectsEmptyGrid(t *testing.T) {
	c, dir, _ := fixtures(t)
	_, err := DelimitedText(nil, c, dir)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestDelimitedRoundTrip(t *testing.T) {
	c, dir, grid := fixtures(t)
	// 不在目录中的员工导出为 None，不参与往返比较
	delete(grid[2].Shifts, "OA")

	out, err := DelimitedText(grid, c, dir)
	require.NoError(t, err)

	res, err := importer.ParseDelimited([]byte(out), c, dir)
	require.NoError(t, err)
	assert.Empty(t, res.Unresolved)
	require.Len(t, res.Grid, len(grid))

	if diff := cmp.Diff(staffed(grid), staffed(res.Grid)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	for i := range grid {
		assert.Equal(t, grid[i].Date, res.Grid[i].Date)
		assert.Equal(t, grid[i].Day, res.Grid[i].Day)
		assert.Equal(t, grid[i].Weekday, res.Grid[i].Weekday)
	}
	assert.Equal(t, domain.NoteImportedCSV, res.Grid[0].Shifts["ICU_morning"].Note)
}

func TestWorkbook(t *testing.T) {
	c, dir, grid := fixtures(t)

	buf, err := Workbook(grid, c, dir)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 31)
	assert.Equal(t, header(c), rows[0])
	assert.Equal(t, "Berg, Anna", rows[1][3])
	assert.Equal(t, "Ben Kurz", rows[2][5])
	assert.Equal(t, Unassigned, rows[3][7])
}

func TestStaffCalendar(t *testing.T) {
	c, _, grid := fixtures(t)
	days := roster.CalendarFor([]domain.ScheduleGrid{grid}, c, "S2")
	stamp := time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC)

	out, err := StaffCalendar(domain.Staff{ID: "S2", Name: "Ben Kurz"}, days, time.UTC, stamp)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "20240402T213000Z", ev.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240403T080000Z", ev.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "ICU Night", ev.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20240330T120000Z", ev.GetProperty(ics.ComponentPropertyDtstamp).Value)
}

func TestShiftWindowSameDay(t *testing.T) {
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := shiftWindow(date, "07:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Hour, end.Sub(start))

	start, end, err = shiftWindow(date, "09:00", "09:00")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = shiftWindow(date, "7am", "17:00")
	assert.Error(t, err)
}

package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/roster"
)

func april(t *testing.T) domain.ScheduleGrid {
	t.Helper()
	grid, err := roster.EmptyGridFor(4, 2024)
	require.NoError(t, err)
	return grid
}

type tuple struct {
	Date, Key, Staff string
}

func cellsOf(grid domain.ScheduleGrid) []tuple {
	var out []tuple
	for _, day := range grid {
		for key, a := range day.Shifts {
			out = append(out, tuple{day.Date, key, a.Staff()})
		}
	}
	return out
}

func sortTuples(a, b tuple) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.Key < b.Key
}

func TestMergeSingleImportedDay(t *testing.T) {
	current := april(t)
	incoming := domain.ScheduleGrid{{
		Date:    "2024-04-05",
		Day:     5,
		Weekday: "Friday",
		Shifts: map[string]domain.Assignment{
			"ICU_morning": {StaffID: domain.StaffRef("S1"), Note: domain.NoteImportedCSV},
		},
	}}

	out := Merge(current, incoming, false)
	require.Len(t, out, 30)

	for _, day := range out {
		for key, a := range day.Shifts {
			if day.Date == "2024-04-05" && key == "ICU_morning" {
				assert.Equal(t, "S1", a.Staff())
				assert.Equal(t, domain.NoteMerged, a.Note)
				continue
			}
			assert.False(t, a.IsStaffed(), "%s/%s", day.Date, key)
		}
	}
	assert.Len(t, out[4].Shifts, 1)
	assert.Empty(t, current[4].Shifts, "current must not change")
}

func TestMergeOverwrite(t *testing.T) {
	current := april(t)
	current[0].Shifts["HD"] = domain.Assignment{StaffID: domain.StaffRef("S9")}
	incoming := domain.ScheduleGrid{{Date: "2024-04-02", Day: 2, Weekday: "Tuesday", Shifts: map[string]domain.Assignment{}}}

	out := Merge(current, incoming, true)
	assert.Equal(t, incoming, out)

	out = Merge(nil, incoming, false)
	assert.Equal(t, incoming, out)

	out[0].Shifts["OA"] = domain.Assignment{}
	assert.Empty(t, incoming[0].Shifts, "result must not alias incoming")
}

func TestMergeNeverClearsByOmission(t *testing.T) {
	current := april(t)
	current[0].Shifts["HD"] = domain.Assignment{StaffID: domain.StaffRef("S9"), Note: domain.NoteManual}
	incoming := domain.ScheduleGrid{{
		Date: "2024-04-01", Day: 1, Weekday: "Monday",
		Shifts: map[string]domain.Assignment{
			"HD": {Note: "cleared"},
			"OA": {StaffID: domain.StaffRef("S2")},
		},
	}}

	out := Merge(current, incoming, false)
	assert.Equal(t, domain.Assignment{StaffID: domain.StaffRef("S9"), Note: domain.NoteManual}, out[0].Shifts["HD"])
	assert.Equal(t, "S2", out[0].Shifts["OA"].Staff())
}

func TestMergeAppendsAndSorts(t *testing.T) {
	current := domain.ScheduleGrid{
		{Date: "2024-04-03", Day: 3, Weekday: "Wednesday", Shifts: map[string]domain.Assignment{}},
	}
	incoming := domain.ScheduleGrid{
		{Date: "2024-04-02", Day: 2, Weekday: "Tuesday", Shifts: map[string]domain.Assignment{
			"HD": {StaffID: domain.StaffRef("S1")},
		}},
		{Date: "2024-04-01", Day: 1, Weekday: "Monday"},
		{Date: "2024-04-02", Day: 2, Weekday: "Tuesday", Shifts: map[string]domain.Assignment{
			"OA": {StaffID: domain.StaffRef("S2")},
		}},
	}

	out := Merge(current, incoming, false)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"2024-04-01", "2024-04-02", "2024-04-03"}, []string{out[0].Date, out[1].Date, out[2].Date})
	assert.Equal(t, "S1", out[1].Shifts["HD"].Staff())
	assert.Equal(t, "S2", out[1].Shifts["OA"].Staff())
	assert.Nil(t, out[0].Shifts)
}

func TestMergeIdempotent(t *testing.T) {
	a := april(t)
	a[2].Shifts["HD"] = domain.Assignment{StaffID: domain.StaffRef("S3"), Note: domain.NoteManual}
	a[3].Shifts["OA"] = domain.Assignment{Note: "open"}

	b := domain.ScheduleGrid{
		{Date: "2024-04-03", Day: 3, Weekday: "Wednesday", Shifts: map[string]domain.Assignment{
			"HD": {StaffID: domain.StaffRef("S1"), Note: domain.NoteImportedCSV},
			"OA": {},
		}},
		{Date: "2024-04-04", Day: 4, Weekday: "Thursday", Shifts: map[string]domain.Assignment{
			"OA": {StaffID: domain.StaffRef("S2")},
		}},
	}

	once := Merge(a, b, false)
	twice := Merge(once, b, false)

	require.Len(t, twice, len(once))
	if diff := cmp.Diff(cellsOf(once), cellsOf(twice), cmpopts.SortSlices(sortTuples)); diff != "" {
		t.Errorf("second merge changed values (-once +twice):\n%s", diff)
	}
	assert.Equal(t, once, twice)
}

package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

func fixtures(t *testing.T) (*catalog.Catalog, *domain.Directory) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	dir := domain.NewDirectory([]domain.Staff{
		{ID: "S1", Name: "Berg, Anna"},
		{ID: "S2", Name: "Ben Kurz"},
	})
	return c, dir
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"a,,", []string{"a", "", ""}},
		{`"x""y"`, []string{"xy"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLine(tt.line), tt.line)
	}
}

func TestParseDelimited(t *testing.T) {
	c, dir := fixtures(t)
	data := "Date,Day,Weekday,ICU Morning,ICU Night,HD Shift\r\n" +
		"2024-04-01,1,Monday,\"Berg, Anna\",None,Nobody\r\n" +
		"\r\n" +
		"2024-04-02,2,Tuesday,,Ben Kurz,\n"

	res, err := ParseDelimited([]byte(data), c, dir)
	require.NoError(t, err)
	require.Len(t, res.Grid, 2)

	first := res.Grid[0]
	assert.Equal(t, "2024-04-01", first.Date)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Monday", first.Weekday)
	assert.Equal(t, domain.Assignment{StaffID: domain.StaffRef("S1"), Note: domain.NoteImportedCSV}, first.Shifts["ICU_morning"])

	night, ok := first.Cell("ICU_night")
	assert.True(t, ok, "placeholder yields a present, open cell")
	assert.False(t, night.IsStaffed())

	_, ok = first.Cell("HD")
	assert.False(t, ok, "unknown names stay absent")

	// 文件中没有的班次列按空缺处理
	oa, ok := first.Cell("OA")
	assert.True(t, ok)
	assert.False(t, oa.IsStaffed())

	assert.Equal(t, "S2", res.Grid[1].Shifts["ICU_night"].Staff())
	assert.Equal(t, []Unresolved{{Line: 2, Date: "2024-04-01", ShiftKey: "HD", Name: "Nobody"}}, res.Unresolved)
}

func TestParseDelimitedSkipsByteOrderMark(t *testing.T) {
	c, dir := fixtures(t)
	data := "\xef\xbb\xbfDate,Day,Weekday,ICU Night\n2024-04-02,2,Tuesday,Ben Kurz\n"

	res, err := ParseDelimited([]byte(data), c, dir)
	require.NoError(t, err)
	require.Len(t, res.Grid, 1)
	assert.Equal(t, "2024-04-02", res.Grid[0].Date)
	assert.Equal(t, "S2", res.Grid[0].Shifts["ICU_night"].Staff())
}

func TestParseDelimitedNameMatching(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	dir := domain.NewDirectory([]domain.Staff{
		{ID: "S1", Name: " Anna "},
		{ID: "S2", Name: "Anna"},
		{ID: "S3", Name: "Ben"},
	})
	data := "Date,Day,Weekday,ICU Morning,ICU Night,HD Shift\n" +
		"2024-04-01,1,Monday,\" Anna \",Anna, Ben \n"

	res, err := ParseDelimited([]byte(data), c, dir)
	require.NoError(t, err)
	require.Len(t, res.Grid, 1)

	day := res.Grid[0]
	assert.Equal(t, "S1", day.Shifts["ICU_morning"].Staff(), "exact name wins")
	assert.Equal(t, "S2", day.Shifts["ICU_night"].Staff())
	assert.Equal(t, "S3", day.Shifts["HD"].Staff(), "surrounding blanks are ignored when no exact match exists")
	assert.Empty(t, res.Unresolved)
}

func TestParseDelimitedStructuralErrors(t *testing.T) {
	c, dir := fixtures(t)
	tests := map[string]string{
		"empty":           "",
		"header only":     "Date,Day,Weekday\n",
		"missing weekday": "Date,Day,ICU Morning\n2024-04-01,1,None\n",
		"bad day":         "Date,Day,Weekday\n2024-04-01,x,Monday\n",
		"bad date":        "Date,Day,Weekday\n01.04.2024,1,Monday\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDelimited([]byte(data), c, dir)
			assert.ErrorIs(t, err, ErrStructural)
		})
	}
}

func TestParseDocument(t *testing.T) {
	data := `[
		{"date": "2024-04-05", "day": 5, "weekday": "Friday", "shifts": {
			"ICU_morning": {"assigned": "S1", "notes": "x"},
			"HD": {"assigned": null, "notes": ""}
		}},
		{"date": "2024-04-06", "day": 6, "weekday": "Saturday", "shifts": {}}
	]`

	grid, err := ParseDocument([]byte(data))
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "S1", grid[0].Shifts["ICU_morning"].Staff())
	hd, ok := grid[0].Cell("HD")
	assert.True(t, ok)
	assert.Nil(t, hd.StaffID)
	assert.NotNil(t, grid[1].Shifts)
}

func TestParseDocumentAllOrNothing(t *testing.T) {
	tests := map[string]string{
		"not an array":   `{"date": "2024-04-05"}`,
		"empty":          ``,
		"invalid json":   `[{"date": }]`,
		"missing shifts": `[{"date": "2024-04-05", "day": 5, "weekday": "Friday", "shifts": {}}, {"date": "2024-04-06", "day": 6, "weekday": "Saturday"}]`,
		"null shifts":    `[{"date": "2024-04-05", "day": 5, "weekday": "Friday", "shifts": null}]`,
		"zero day":       `[{"date": "2024-04-05", "day": 0, "weekday": "Friday", "shifts": {}}]`,
		"missing date":   `[{"day": 5, "weekday": "Friday", "shifts": {}}]`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			grid, err := ParseDocument([]byte(data))
			assert.ErrorIs(t, err, ErrStructural)
			assert.Nil(t, grid)
		})
	}
}

func TestParseDispatch(t *testing.T) {
	c, dir := fixtures(t)

	res, err := Parse("april.CSV", []byte("Date,Day,Weekday\n2024-04-01,1,Monday\n"), c, dir)
	require.NoError(t, err)
	assert.Len(t, res.Grid, 1)

	res, err = Parse("april.json", []byte(`[{"date":"2024-04-01","day":1,"weekday":"Monday","shifts":{}}]`), c, dir)
	require.NoError(t, err)
	assert.Len(t, res.Grid, 1)

	_, err = Parse("april.xlsx", nil, c, dir)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/domain"
)

func TestLoadStaffCSV(t *testing.T) {
	in := `ID,Name,Role,Email,Capabilities,RequiredShifts
S1,Anna Weber,Oberarzt,anna@example.org,"ICU_night, HD",12
S2,Ben Koch,,,,
`
	staff, err := LoadStaffCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.Staff{
		{ID: "S1", Name: "Anna Weber", Role: "Oberarzt", Email: "anna@example.org", Capabilities: []string{"ICU_night", "HD"}, RequiredShifts: 12},
		{ID: "S2", Name: "Ben Koch"},
	}, staff)
}

func TestLoadStaffCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "文件为空"},
		{"missing name column", "ID,Role\nS1,x\n", "Name"},
		{"missing id", "ID,Name\n,Anna\n", "第 2 行"},
		{"bad required shifts", "ID,Name,RequiredShifts\nS1,Anna,many\n", "RequiredShifts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStaffCSV(strings.NewReader(tt.in))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

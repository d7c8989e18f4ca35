package roster

import (
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

const UnknownStaffName = "Unknown"

type CellView struct {
	ShiftKey     string `json:"shiftKey"`
	StaffID      string `json:"staffID,omitempty"`
	StaffName    string `json:"staffName,omitempty"`
	Note         string `json:"note,omitempty"`
	Materialized bool   `json:"materialized"`
	WishGranted  bool   `json:"wishGranted"`
	NextDayOff   bool   `json:"nextDayOff"`
	Unavailable  bool   `json:"unavailable"`
}

type RowView struct {
	Date    string     `json:"date"`
	Day     int        `json:"day"`
	Weekday string     `json:"weekday"`
	Weekend bool       `json:"weekend"`
	Cells   []CellView `json:"cells"`
}

// Rows 计算展示用的派生状态，列顺序为 catalog.OrderedKeys()
func Rows(grid domain.ScheduleGrid, c *catalog.Catalog, dir *domain.Directory, wishes *WishIndex) []RowView {
	keys := c.OrderedKeys()
	rows := make([]RowView, 0, len(grid))

	for _, day := range grid {
		row := RowView{
			Date:    day.Date,
			Day:     day.Day,
			Weekday: day.Weekday,
			Weekend: day.IsWeekend(),
			Cells:   make([]CellView, 0, len(keys)),
		}

		for _, key := range keys {
			def, _ := c.Lookup(key)
			a, ok := day.Cell(key)
			cell := CellView{
				ShiftKey:     key,
				Materialized: ok,
				Note:         a.Note,
				Unavailable:  def.WeekendExcluded && row.Weekend,
			}
			if a.IsStaffed() {
				cell.StaffID = a.Staff()
				cell.StaffName = UnknownStaffName
				if staff, found := dir.Lookup(cell.StaffID); found {
					cell.StaffName = staff.Name
				}
				cell.WishGranted = wishes.Granted(cell.StaffID, day.Date, key)
				cell.NextDayOff = def.NextDayOff
			}
			row.Cells = append(row.Cells, cell)
		}

		rows = append(rows, row)
	}

	return rows
}

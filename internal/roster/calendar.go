package roster

import (
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

type CalendarShift struct {
	ShiftKey      string  `json:"shift"`
	Name          string  `json:"name"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationHours float64 `json:"duration"`
	Note          string  `json:"notes"`
}

type CalendarDay struct {
	Date    string          `json:"date"`
	Weekday string          `json:"weekday"`
	Shifts  []CalendarShift `json:"shifts"`
}

// CalendarFor 列出某个员工在这些排班表中的所有班次，没有班次的日期不会出现
func CalendarFor(grids []domain.ScheduleGrid, c *catalog.Catalog, staffID string) []CalendarDay {
	var days []CalendarDay
	for _, grid := range grids {
		for _, day := range grid {
			var shifts []CalendarShift
			for _, key := range c.OrderedKeys() {
				a, ok := day.Cell(key)
				if !ok || a.Staff() != staffID {
					continue
				}
				def, _ := c.Lookup(key)
				shifts = append(shifts, CalendarShift{
					ShiftKey:      key,
					Name:          def.DisplayName,
					Start:         def.Start,
					End:           def.End,
					DurationHours: def.DurationHours,
					Note:          a.Note,
				})
			}
			if len(shifts) > 0 {
				days = append(days, CalendarDay{Date: day.Date, Weekday: day.Weekday, Shifts: shifts})
			}
		}
	}
	return days
}

// AbsencesIn 返回开始日期落在 period 内的缺勤记录
func AbsencesIn(absences []domain.Absence, staffID string, period Period) []domain.Absence {
	var out []domain.Absence
	for _, ab := range absences {
		if ab.StaffID != staffID {
			continue
		}
		start, err := parseDate(ab.StartDate)
		if err != nil || !period.contains(start) {
			continue
		}
		out = append(out, ab)
	}
	return out
}

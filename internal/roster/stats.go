package roster

import (
	"math"
	"time"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

type StaffStats struct {
	StaffID         string         `json:"staffID"`
	Name            string         `json:"name"`
	TotalShifts     int            `json:"totalShifts"`
	ShiftsByType    map[string]int `json:"shiftsByType"`
	WeekendShifts   int            `json:"weekendShifts"`
	WishesGranted   int            `json:"wishesGranted"`
	AbsenceDays     int            `json:"absenceDays"`
	SickDays        int            `json:"sickDays"`
	VacationDays    int            `json:"vacationDays"`
	RequiredShifts  int            `json:"requiredShifts"`
	RemainingShifts int            `json:"remainingShifts"`
}

type Forecast struct {
	StaffID           string         `json:"staffID"`
	Name              string         `json:"name"`
	RemainingShifts   int            `json:"remainingShifts"`
	RecommendedShifts map[string]int `json:"recommendedShifts"`
}

type Statistics struct {
	Staff    []StaffStats `json:"staff"`
	Forecast []Forecast   `json:"forecast"`
}

// Period 中 Month 为 0 表示整年
type Period struct {
	Year  int
	Month int
}

func (p Period) contains(t time.Time) bool {
	return t.Year() == p.Year && (p.Month == 0 || int(t.Month()) == p.Month)
}

// Tally 统计传入的排班表，调用方负责按 Period 筛选排班表；缺勤按开始日期归入 Period
func Tally(grids []domain.ScheduleGrid, c *catalog.Catalog, dir *domain.Directory, absences []domain.Absence, wishes *WishIndex, period Period) Statistics {
	members := dir.Members()
	stats := make([]StaffStats, len(members))
	pos := make(map[string]int, len(members))

	for i, m := range members {
		stats[i] = StaffStats{
			StaffID:        m.ID,
			Name:           m.Name,
			ShiftsByType:   make(map[string]int, c.Len()),
			RequiredShifts: m.RequiredShifts,
		}
		for _, key := range c.OrderedKeys() {
			stats[i].ShiftsByType[key] = 0
		}
		pos[m.ID] = i
	}

	for _, grid := range grids {
		for _, day := range grid {
			weekend := day.IsWeekend()
			for key, a := range day.Shifts {
				if !a.IsStaffed() {
					continue
				}
				i, ok := pos[a.Staff()]
				if !ok {
					continue
				}
				s := &stats[i]
				s.TotalShifts++
				s.ShiftsByType[key]++
				if weekend {
					s.WeekendShifts++
				}
				if wishes.Granted(a.Staff(), day.Date, key) {
					s.WishesGranted++
				}
			}
		}
	}

	for _, ab := range absences {
		i, ok := pos[ab.StaffID]
		if !ok {
			continue
		}
		start, err := parseDate(ab.StartDate)
		if err != nil {
			continue
		}
		end, err := parseDate(ab.EndDate)
		if err != nil || end.Before(start) {
			continue
		}
		if !period.contains(start) {
			continue
		}

		days := int(end.Sub(start).Hours()/24) + 1
		stats[i].AbsenceDays += days
		switch ab.Type {
		case domain.AbsenceSick:
			stats[i].SickDays += days
		case domain.AbsenceVacation:
			stats[i].VacationDays += days
		}
	}

	forecast := make([]Forecast, 0, len(members))
	for i, m := range members {
		s := &stats[i]
		s.RemainingShifts = max(0, s.RequiredShifts-s.TotalShifts)

		f := Forecast{
			StaffID:           m.ID,
			Name:              m.Name,
			RemainingShifts:   s.RemainingShifts,
			RecommendedShifts: map[string]int{},
		}
		// 剩余班次平均分配到该员工能上的班次
		if len(m.Capabilities) > 0 && s.RemainingShifts > 0 {
			perShift := float64(s.RemainingShifts) / float64(len(m.Capabilities))
			for _, key := range m.Capabilities {
				f.RecommendedShifts[key] = int(math.RoundToEven(perShift))
			}
		}
		forecast = append(forecast, f)
	}

	return Statistics{Staff: stats, Forecast: forecast}
}

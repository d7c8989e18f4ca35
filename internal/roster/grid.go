package roster

import (
	"errors"
	"fmt"
	"time"

	"github.com/ward-roster/roster/backend/internal/domain"
)

var (
	ErrDayNotFound  = errors.New("排班表中不存在该日期")
	ErrUnknownShift = errors.New("班次不存在")
	ErrInvalidMonth = errors.New("月份必须在 1 到 12 之间")
)

func DaysIn(month, year int) int {
	// 下个月的第 0 天即本月最后一天
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EmptyGridFor 为每一天生成一条记录，所有班次都处于“未生成”状态
func EmptyGridFor(month, year int) (domain.ScheduleGrid, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	n := DaysIn(month, year)
	grid := make(domain.ScheduleGrid, 0, n)
	for day := 1; day <= n; day++ {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		grid = append(grid, domain.DayRecord{
			Date:    t.Format(domain.DateLayout),
			Day:     day,
			Weekday: t.Weekday().String(),
			Shifts:  map[string]domain.Assignment{},
		})
	}

	return grid, nil
}

// SetAssignment 先经过 Validator 校验，通过后整体替换目标单元格并返回新的排班表。
// 传入的 grid 不会被修改；被拒绝时返回原 grid 和拒绝原因。
func (v *Validator) SetAssignment(grid domain.ScheduleGrid, date, shiftKey string, staffID *string, note string) (domain.ScheduleGrid, error) {
	idx := grid.IndexOf(date)
	if idx < 0 {
		return grid, fmt.Errorf("%w: %s", ErrDayNotFound, date)
	}
	if v.Catalog != nil {
		if _, ok := v.Catalog.Lookup(shiftKey); !ok {
			return grid, fmt.Errorf("%w: %s", ErrUnknownShift, shiftKey)
		}
	}

	candidate := Candidate{
		ShiftKey: shiftKey,
		Date:     date,
		Weekday:  grid[idx].Weekday,
	}
	if staffID != nil {
		candidate.StaffID = *staffID
	}
	if err := v.Validate(candidate); err != nil {
		return grid, err
	}

	cell := domain.Assignment{Note: note}
	if candidate.StaffID != "" {
		cell.StaffID = domain.StaffRef(candidate.StaffID)
	}

	// 只复制被修改的那一天，其余记录与原表共享
	out := make(domain.ScheduleGrid, len(grid))
	copy(out, grid)
	day := grid[idx].Clone()
	if day.Shifts == nil {
		day.Shifts = make(map[string]domain.Assignment)
	}
	day.Shifts[shiftKey] = cell
	out[idx] = day

	return out, nil
}

func (v *Validator) ClearAssignment(grid domain.ScheduleGrid, date, shiftKey string) (domain.ScheduleGrid, error) {
	return v.SetAssignment(grid, date, shiftKey, nil, "")
}

package roster

import (
	"fmt"

	"github.com/ward-roster/roster/backend/internal/domain"
)

type WarningKind string

const (
	WarningDanglingStaff   WarningKind = "dangling_staff"
	WarningInvalidDate     WarningKind = "invalid_date"
	WarningWeekdayMismatch WarningKind = "weekday_mismatch"
	WarningDayMismatch     WarningKind = "day_mismatch"
	WarningDuplicateDate   WarningKind = "duplicate_date"
	WarningConstraint      WarningKind = "constraint_violation"
)

// Warning 只用于提示，不会阻止展示和保存
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Date     string      `json:"date"`
	ShiftKey string      `json:"shiftKey,omitempty"`
	Message  string      `json:"message"`
}

// CheckIntegrity 不会修复任何数据，只报告问题
func CheckIntegrity(grid domain.ScheduleGrid, dir *domain.Directory) []Warning {
	var warnings []Warning
	seen := make(map[string]bool, len(grid))

	for _, day := range grid {
		if seen[day.Date] {
			warnings = append(warnings, Warning{
				Kind:    WarningDuplicateDate,
				Date:    day.Date,
				Message: fmt.Sprintf("日期 %s 重复出现", day.Date),
			})
		}
		seen[day.Date] = true

		t, err := day.Time()
		if err != nil {
			warnings = append(warnings, Warning{
				Kind:    WarningInvalidDate,
				Date:    day.Date,
				Message: fmt.Sprintf("无法解析日期 %q", day.Date),
			})
		} else {
			if want := t.Weekday().String(); want != day.Weekday {
				warnings = append(warnings, Warning{
					Kind:    WarningWeekdayMismatch,
					Date:    day.Date,
					Message: fmt.Sprintf("%s 应为 %s，记录为 %s", day.Date, want, day.Weekday),
				})
			}
			if t.Day() != day.Day {
				warnings = append(warnings, Warning{
					Kind:    WarningDayMismatch,
					Date:    day.Date,
					Message: fmt.Sprintf("%s 应为第 %d 天，记录为 %d", day.Date, t.Day(), day.Day),
				})
			}
		}

		for _, key := range sortedKeys(day.Shifts) {
			a := day.Shifts[key]
			if !a.IsStaffed() {
				continue
			}
			if _, ok := dir.Lookup(a.Staff()); !ok {
				warnings = append(warnings, Warning{
					Kind:     WarningDanglingStaff,
					Date:     day.Date,
					ShiftKey: key,
					Message:  fmt.Sprintf("%s 的 %s 指向不存在的员工 %s", day.Date, key, a.Staff()),
				})
			}
		}
	}

	return warnings
}

package merge

import (
	"sort"

	"github.com/ward-roster/roster/backend/internal/domain"
)

// Merge 把导入的排班表合并到当前排班表，两个参数都不会被修改。
//
// overwrite 为 true 或当前排班表为空时直接使用导入的排班表。否则按日期合并：
// 导入中有人值班的单元格覆盖当前单元格并标记为 domain.NoteMerged，
// 导入中无人值班的单元格不影响当前单元格；当前排班表中没有的日期整天追加。
// 结果按 Day 升序排列。
func Merge(current, incoming domain.ScheduleGrid, overwrite bool) domain.ScheduleGrid {
	if overwrite || len(current) == 0 {
		return incoming.Clone()
	}

	out := current.Clone()
	index := make(map[string]int, len(out))
	for i, day := range out {
		if _, exists := index[day.Date]; !exists {
			index[day.Date] = i
		}
	}

	for _, in := range incoming {
		i, ok := index[in.Date]
		if !ok {
			index[in.Date] = len(out)
			out = append(out, in.Clone())
			continue
		}

		day := &out[i]
		for key, a := range in.Shifts {
			if !a.IsStaffed() {
				continue
			}
			if day.Shifts == nil {
				day.Shifts = make(map[string]domain.Assignment)
			}
			day.Shifts[key] = domain.Assignment{
				StaffID: domain.StaffRef(a.Staff()),
				Note:    domain.NoteMerged,
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day < out[j].Day
	})

	return out
}

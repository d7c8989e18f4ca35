package utils

import (
	"fmt"
	"time"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

// ValidateStaffList 检查员工 ID 是否重复、能力是否都是已定义的班次
func ValidateStaffList(staff []domain.Staff, c *catalog.Catalog) error {
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if seen[s.ID] {
			return fmt.Errorf("员工 ID %s 重复", s.ID)
		}
		seen[s.ID] = true

		for _, key := range s.Capabilities {
			if _, ok := c.Lookup(key); !ok {
				return fmt.Errorf("员工 %s 的能力 %s 不是已定义的班次", s.ID, key)
			}
		}
	}
	return nil
}

func ValidateWishes(wishes []domain.Wish, c *catalog.Catalog) error {
	for i, w := range wishes {
		if _, ok := c.Lookup(w.Shift); !ok {
			return fmt.Errorf("第 %d 条意愿的班次 %s 不存在", i+1, w.Shift)
		}
	}
	return nil
}

func ValidateAbsences(absences []domain.Absence) error {
	for i, a := range absences {
		start, err := time.Parse(domain.DateLayout, a.StartDate)
		if err != nil {
			return fmt.Errorf("第 %d 条缺勤记录的开始日期格式错误", i+1)
		}
		end, err := time.Parse(domain.DateLayout, a.EndDate)
		if err != nil {
			return fmt.Errorf("第 %d 条缺勤记录的结束日期格式错误", i+1)
		}
		if end.Before(start) {
			return fmt.Errorf("第 %d 条缺勤记录的结束日期不能早于开始日期", i+1)
		}
	}
	return nil
}

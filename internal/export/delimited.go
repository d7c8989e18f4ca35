package export

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

// Unassigned 是空缺班次在导出文件中的占位符，导入时按空缺处理
const Unassigned = "None"

var ErrEmptyGrid = errors.New("排班表为空，无法导出")

// header 返回导出文件的列名，顺序与 catalog.OrderedKeys() 一致
func header(c *catalog.Catalog) []string {
	cols := []string{"Date", "Day", "Weekday"}
	for _, key := range c.OrderedKeys() {
		cols = append(cols, c.DisplayName(key))
	}
	return cols
}

// cells 返回某一天的整行内容。不在员工目录中的员工和空缺一样输出占位符
func cells(day domain.DayRecord, c *catalog.Catalog, dir *domain.Directory) []string {
	row := []string{day.Date, strconv.Itoa(day.Day), day.Weekday}
	for _, key := range c.OrderedKeys() {
		name := Unassigned
		if a, ok := day.Cell(key); ok && a.IsStaffed() {
			if staff, found := dir.Lookup(a.Staff()); found {
				name = staff.Name
			}
		}
		row = append(row, name)
	}
	return row
}

// DelimitedText 按排班表现有的日期顺序导出 CSV，不重新排序。
// 含逗号的字段用引号括起来；字段中的引号原样输出，不做转义。
func DelimitedText(grid domain.ScheduleGrid, c *catalog.Catalog, dir *domain.Directory) (string, error) {
	if len(grid) == 0 {
		return "", ErrEmptyGrid
	}

	var b strings.Builder
	writeRow(&b, header(c))
	for _, day := range grid {
		writeRow(&b, cells(day, c, dir))
	}
	return b.String(), nil
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.Contains(f, ",") {
			b.WriteByte('"')
			b.WriteString(f)
			b.WriteByte('"')
			continue
		}
		b.WriteString(f)
	}
	b.WriteByte('\n')
}

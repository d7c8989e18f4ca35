package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

const (
	delimiter   = ','
	quote       = '"'
	placeholder = "None"
	bom         = "\ufeff"
)

var requiredHeaders = []string{"Date", "Day", "Weekday"}

// ParseDelimited 解析导出格式的 CSV：表头为 Date, Day, Weekday 加上各班次的显示名称。
// 引号内的逗号视为普通字符，引号本身会被去掉，不支持用两个引号转义引号。
func ParseDelimited(data []byte, c *catalog.Catalog, dir *domain.Directory) (Result, error) {
	// Excel 保存的 CSV 通常带 BOM
	text := strings.TrimPrefix(string(data), bom)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) == "" {
		return Result{}, structural("文件为空")
	}

	columns := make(map[string]int)
	for i, h := range splitLine(lines[0]) {
		h = strings.TrimSpace(h)
		// 表头重复时以第一次出现为准
		if _, exists := columns[h]; !exists {
			columns[h] = i
		}
	}
	for _, h := range requiredHeaders {
		if _, ok := columns[h]; !ok {
			return Result{}, structural("缺少必需的列 %s", h)
		}
	}

	var result Result
	for n, line := range lines[1:] {
		lineNo := n + 2
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitLine(line)
		field := func(header string) string {
			i, ok := columns[header]
			if !ok || i >= len(values) {
				return ""
			}
			return values[i]
		}

		date := strings.TrimSpace(field("Date"))
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			return Result{}, structural("第 %d 行的日期 %q 无效", lineNo, date)
		}
		day, err := strconv.Atoi(strings.TrimSpace(field("Day")))
		if err != nil {
			return Result{}, structural("第 %d 行的 Day 不是整数", lineNo)
		}

		record := domain.DayRecord{
			Date:    date,
			Day:     day,
			Weekday: strings.TrimSpace(field("Weekday")),
			Shifts:  make(map[string]domain.Assignment, c.Len()),
		}

		for _, key := range c.OrderedKeys() {
			raw := field(c.DisplayName(key))
			name := strings.TrimSpace(raw)
			if name == "" || name == placeholder {
				record.Shifts[key] = domain.Assignment{}
				continue
			}

			staff, ok := resolveName(dir, raw, name)
			if !ok {
				result.Unresolved = append(result.Unresolved, Unresolved{
					Line:     lineNo,
					Date:     date,
					ShiftKey: key,
					Name:     name,
				})
				continue
			}
			record.Shifts[key] = domain.Assignment{
				StaffID: domain.StaffRef(staff.ID),
				Note:    domain.NoteImportedCSV,
			}
		}

		result.Grid = append(result.Grid, record)
	}

	if len(result.Grid) == 0 {
		return Result{}, structural("文件中没有数据行")
	}

	return result, nil
}

// resolveName 先按原文精确匹配，找不到时再用去掉首尾空白的名字匹配
func resolveName(dir *domain.Directory, raw, trimmed string) (domain.Staff, bool) {
	if staff, ok := dir.FindByName(raw); ok {
		return staff, true
	}
	return dir.FindByName(trimmed)
}

// splitLine 按逗号切分一行，引号之间的逗号不切分
func splitLine(line string) []string {
	var (
		values  []string
		current strings.Builder
		inQuote bool
	)

	for _, r := range line {
		switch {
		case r == quote:
			inQuote = !inQuote
		case r == delimiter && !inQuote:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(values, current.String())
}

package export

import (
	"bytes"
	"fmt"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Schedule"

// Workbook 导出与 CSV 列顺序相同的 xlsx 文件，周末行使用单独的底色
func Workbook(grid domain.ScheduleGrid, c *catalog.Catalog, dir *domain.Directory) (*bytes.Buffer, error) {
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("删除默认工作表失败: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("创建样式失败: %w", err)
	}
	weekendStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("创建样式失败: %w", err)
	}

	cols := header(c)
	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetColWidth(sheetName, "A", lastCol, 16); err != nil {
		return nil, err
	}

	if err := writeSheetRow(f, 1, cols); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, day := range grid {
		row := i + 2
		if err := writeSheetRow(f, row, cells(day, c, dir)); err != nil {
			return nil, err
		}
		if day.IsWeekend() {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(cols), row)
			if err := f.SetCellStyle(sheetName, start, end, weekendStyle); err != nil {
				return nil, err
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("写入 Excel 失败: %w", err)
	}
	return buf, nil
}

func writeSheetRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &vals)
}

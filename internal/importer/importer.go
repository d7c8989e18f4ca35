package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

var (
	// ErrStructural 所有格式错误都会包装该错误，导入失败时排班表保持不变
	ErrStructural        = errors.New("导入文件格式错误")
	ErrUnsupportedFormat = errors.New("不支持的文件格式，请上传 CSV 或 JSON 文件")
)

// Result 中的 Unresolved 记录无法在员工目录中找到的姓名，对应单元格保持“未生成”
type Result struct {
	Grid       domain.ScheduleGrid
	Unresolved []Unresolved
}

type Unresolved struct {
	Line     int    `json:"line"`
	Date     string `json:"date"`
	ShiftKey string `json:"shiftKey"`
	Name     string `json:"name"`
}

// Parse 按文件扩展名选择解析器
func Parse(filename string, data []byte, c *catalog.Catalog, dir *domain.Directory) (Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseDelimited(data, c, dir)
	case ".json":
		grid, err := ParseDocument(data)
		if err != nil {
			return Result{}, err
		}
		return Result{Grid: grid}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func structural(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

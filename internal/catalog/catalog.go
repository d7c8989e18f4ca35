package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ward-roster/roster/backend/internal/domain"
)

var (
	ErrEmptyKey      = errors.New("班次 key 不能为空")
	ErrDuplicateKey  = errors.New("班次 key 重复")
	ErrBadCategory   = errors.New("未知的班次类别")
	ErrDuplicateName = errors.New("班次显示名称重复或与保留列名冲突")
)

// reservedNames 是导入导出文件中固定列的表头，班次不能使用
var reservedNames = []string{"Date", "Day", "Weekday"}

// Catalog 在一次会话内不可变，重新加载时整体替换
type Catalog struct {
	defs    map[string]domain.ShiftDefinition
	ordered []string
	byName  map[string]string
}

func New(defs []domain.ShiftDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:   make(map[string]domain.ShiftDefinition, len(defs)),
		byName: make(map[string]string, len(defs)),
	}

	for i, def := range defs {
		def.Key = strings.TrimSpace(def.Key)
		if def.Key == "" {
			return nil, fmt.Errorf("第 %d 个班次: %w", i+1, ErrEmptyKey)
		}
		if _, exists := c.defs[def.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, def.Key)
		}
		switch def.Category {
		case "":
			def.Category = domain.ShiftCategoryGeneral
		case domain.ShiftCategoryGeneral, domain.ShiftCategoryCriticalCare:
		default:
			return nil, fmt.Errorf("%w: %s (%s)", ErrBadCategory, def.Category, def.Key)
		}
		def.DisplayName = strings.TrimSpace(def.DisplayName)
		if def.DisplayName == "" {
			def.DisplayName = def.Key
		}
		// 导入导出按显示名称对齐列，名称必须唯一
		if _, exists := c.byName[def.DisplayName]; exists || slices.Contains(reservedNames, def.DisplayName) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateName, def.DisplayName, def.Key)
		}
		c.byName[def.DisplayName] = def.Key

		c.defs[def.Key] = def
		c.ordered = append(c.ordered, def.Key)
	}

	slices.SortFunc(c.ordered, func(a, b string) int {
		return compare(c.defs[a], c.defs[b])
	})

	return c, nil
}

// compare 定义全序：重症监护类在前，按 SortOrder 再按 key；其余按 key 字典序
func compare(a, b domain.ShiftDefinition) int {
	aCC, bCC := a.IsCriticalCare(), b.IsCriticalCare()
	switch {
	case aCC && !bCC:
		return -1
	case !aCC && bCC:
		return 1
	case aCC && bCC && a.SortOrder != b.SortOrder:
		if a.SortOrder < b.SortOrder {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Key, b.Key)
}

// OrderedKeys 返回的顺序在同一个目录下是稳定的，CSV 的列对齐依赖于此
func (c *Catalog) OrderedKeys() []string {
	return slices.Clone(c.ordered)
}

func (c *Catalog) Definitions() []domain.ShiftDefinition {
	out := make([]domain.ShiftDefinition, 0, len(c.ordered))
	for _, key := range c.ordered {
		out = append(out, c.defs[key])
	}
	return out
}

func (c *Catalog) Lookup(key string) (domain.ShiftDefinition, bool) {
	def, ok := c.defs[key]
	return def, ok
}

func (c *Catalog) KeyByDisplayName(name string) (string, bool) {
	key, ok := c.byName[name]
	return key, ok
}

func (c *Catalog) DisplayName(key string) string {
	if def, ok := c.defs[key]; ok {
		return def.DisplayName
	}
	return key
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}

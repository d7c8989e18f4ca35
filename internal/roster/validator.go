package roster

import (
	"errors"
	"fmt"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
)

// 错误文本即拒绝原因
var (
	ErrCapabilityMismatch = errors.New("capability mismatch")
	ErrWeekendExclusion   = errors.New("weekend exclusion")
)

type Candidate struct {
	StaffID  string
	ShiftKey string
	Date     string
	Weekday  string
}

// Validator 只做客户端能判断的两条规则，覆盖率、公平性等规则由外部排班服务负责。
// 它不做 I/O，也不修改任何数据。
type Validator struct {
	Catalog   *catalog.Catalog
	Directory *domain.Directory
}

func NewValidator(c *catalog.Catalog, d *domain.Directory) *Validator {
	return &Validator{Catalog: c, Directory: d}
}

// Validate 按顺序检查规则，返回第一条不满足的规则对应的错误；StaffID 为空（清空班次）总是合法
func (v *Validator) Validate(c Candidate) error {
	if c.StaffID == "" {
		return nil
	}

	if staff, ok := v.Directory.Lookup(c.StaffID); ok && !staff.CanWork(c.ShiftKey) {
		return ErrCapabilityMismatch
	}

	if v.Catalog != nil {
		if def, ok := v.Catalog.Lookup(c.ShiftKey); ok && def.WeekendExcluded && domain.IsWeekendName(c.Weekday) {
			return ErrWeekendExclusion
		}
	}

	return nil
}

func IsConstraintError(err error) bool {
	return errors.Is(err, ErrCapabilityMismatch) || errors.Is(err, ErrWeekendExclusion)
}

// Violations 对排班表中已有的每个非空单元格重新校验，不修改排班表。
// 导入和外部生成的排班表不经过 SetAssignment，用它来提示不满足规则的单元格。
func (v *Validator) Violations(grid domain.ScheduleGrid) []Warning {
	var warnings []Warning
	for _, day := range grid {
		for _, key := range sortedKeys(day.Shifts) {
			a := day.Shifts[key]
			if !a.IsStaffed() {
				continue
			}
			err := v.Validate(Candidate{StaffID: a.Staff(), ShiftKey: key, Date: day.Date, Weekday: day.Weekday})
			if err != nil {
				warnings = append(warnings, Warning{
					Kind:     WarningConstraint,
					Date:     day.Date,
					ShiftKey: key,
					Message:  fmt.Sprintf("%s 的 %s 安排了 %s: %s", day.Date, key, a.Staff(), err),
				})
			}
		}
	}
	return warnings
}

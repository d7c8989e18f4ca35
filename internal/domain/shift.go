package domain

type ShiftCategory string

const (
	ShiftCategoryGeneral      ShiftCategory = "general"
	ShiftCategoryCriticalCare ShiftCategory = "critical_care" // 重症监护类班次，排序时永远排在最前
)

type ShiftDefinition struct {
	Key             string        `json:"key" yaml:"key"`
	DisplayName     string        `json:"name" yaml:"name"`
	Description     string        `json:"description" yaml:"description"`
	Category        ShiftCategory `json:"category" yaml:"category"`
	SortOrder       int           `json:"displayOrder" yaml:"displayOrder"`
	WeekendExcluded bool          `json:"weekendExcluded" yaml:"weekendExcluded"`
	NextDayOff      bool          `json:"nextDayOff" yaml:"nextDayOff"`
	OnCall          bool          `json:"onCall" yaml:"onCall"`
	Start           string        `json:"start" yaml:"start"` // HH:MM
	End             string        `json:"end" yaml:"end"`     // HH:MM，早于 Start 时表示跨天
	DurationHours   float64       `json:"durationHours" yaml:"durationHours"`
}

func (s ShiftDefinition) IsCriticalCare() bool {
	return s.Category == ShiftCategoryCriticalCare
}

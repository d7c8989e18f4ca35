package domain

import "slices"

type Staff struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Role           string   `json:"role"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Capabilities   []string `json:"capabilities"`
	RequiredShifts int      `json:"requiredShifts" validate:"min=0"`
}

// CanWork 能力列表为空表示不限制
func (s Staff) CanWork(shiftKey string) bool {
	return len(s.Capabilities) == 0 || slices.Contains(s.Capabilities, shiftKey)
}

type Wish struct {
	ID      string `json:"id"`
	StaffID string `json:"staffID" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift   string `json:"shift" validate:"required"`
	Note    string `json:"note"`
}

type AbsenceType string

const (
	AbsenceSick     AbsenceType = "sick"
	AbsenceVacation AbsenceType = "vacation"
	AbsenceOther    AbsenceType = "other"
)

type Absence struct {
	ID        string      `json:"id"`
	StaffID   string      `json:"staffID" validate:"required"`
	Type      AbsenceType `json:"type" validate:"required,oneof=sick vacation other"`
	StartDate string      `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string      `json:"endDate" validate:"required,datetime=2006-01-02"`
	Status    string      `json:"status"`
}

// Directory 是只读的员工目录
type Directory struct {
	members []Staff
	byID    map[string]int
	byName  map[string]int
}

func NewDirectory(members []Staff) *Directory {
	d := &Directory{
		members: slices.Clone(members),
		byID:    make(map[string]int, len(members)),
		byName:  make(map[string]int, len(members)),
	}
	for i, m := range d.members {
		d.byID[m.ID] = i
		// 重名时以第一个为准，和按名字线性查找的行为保持一致
		if _, exists := d.byName[m.Name]; !exists {
			d.byName[m.Name] = i
		}
	}
	return d
}

func (d *Directory) Lookup(id string) (Staff, bool) {
	if d == nil {
		return Staff{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return Staff{}, false
	}
	return d.members[i], true
}

func (d *Directory) FindByName(name string) (Staff, bool) {
	if d == nil {
		return Staff{}, false
	}
	i, ok := d.byName[name]
	if !ok {
		return Staff{}, false
	}
	return d.members[i], true
}

func (d *Directory) Members() []Staff {
	if d == nil {
		return nil
	}
	return slices.Clone(d.members)
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.members)
}

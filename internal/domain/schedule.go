package domain

import (
	"time"
)

const DateLayout = "2006-01-02"

// 各种来源的排班备注
const (
	NoteDragDrop    = "Assigned via drag & drop"
	NoteManual      = "Manual edit"
	NoteImportedCSV = "Imported from CSV"
	NoteMerged      = "Imported from file"
)

// Assignment 表示某天某个班次的排班结果，StaffID 为 nil 表示该班次空缺
type Assignment struct {
	StaffID *string `json:"assigned"`
	Note    string  `json:"notes"`
}

func (a Assignment) IsStaffed() bool {
	return a.StaffID != nil && *a.StaffID != ""
}

func (a Assignment) Staff() string {
	if a.StaffID == nil {
		return ""
	}
	return *a.StaffID
}

// DayRecord 中 Shifts 缺少某个 key 表示该班次尚未生成，和“有记录但无人值班”不同
type DayRecord struct {
	Date    string                `json:"date"`
	Day     int                   `json:"day"`
	Weekday string                `json:"weekday"`
	Shifts  map[string]Assignment `json:"shifts"`
}

func (d DayRecord) Time() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

func (d DayRecord) IsWeekend() bool {
	return IsWeekendName(d.Weekday)
}

// Cell 返回 (assignment, 是否存在)
func (d DayRecord) Cell(shiftKey string) (Assignment, bool) {
	a, ok := d.Shifts[shiftKey]
	return a, ok
}

func (d DayRecord) Clone() DayRecord {
	out := d
	if d.Shifts == nil {
		return out
	}
	out.Shifts = make(map[string]Assignment, len(d.Shifts))
	for k, a := range d.Shifts {
		out.Shifts[k] = a.clone()
	}
	return out
}

func (a Assignment) clone() Assignment {
	if a.StaffID == nil {
		return a
	}
	id := *a.StaffID
	return Assignment{StaffID: &id, Note: a.Note}
}

// ScheduleGrid 是一个月的排班表，按 Day 升序排列
type ScheduleGrid []DayRecord

func (g ScheduleGrid) IndexOf(date string) int {
	for i := range g {
		if g[i].Date == date {
			return i
		}
	}
	return -1
}

func (g ScheduleGrid) Clone() ScheduleGrid {
	if g == nil {
		return nil
	}
	out := make(ScheduleGrid, len(g))
	for i := range g {
		out[i] = g[i].Clone()
	}
	return out
}

func IsWeekendName(weekday string) bool {
	return weekday == time.Saturday.String() || weekday == time.Sunday.String()
}

func StaffRef(id string) *string {
	return &id
}

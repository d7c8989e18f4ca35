package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/roster"
)

const productID = "-//ward-roster//roster//ZH"

// StaffCalendar 把员工的班次导出为 iCalendar，结束时间不晚于开始时间的班次视为在次日结束。
// stamp 用作每个事件的 DTSTAMP。
func StaffCalendar(staff domain.Staff, days []roster.CalendarDay, loc *time.Location, stamp time.Time) (string, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("%s 的排班", staff.Name))

	for _, day := range days {
		date, err := time.ParseInLocation(domain.DateLayout, day.Date, loc)
		if err != nil {
			return "", fmt.Errorf("日期 %q 无效: %w", day.Date, err)
		}

		for _, shift := range day.Shifts {
			start, end, err := shiftWindow(date, shift.Start, shift.End)
			if err != nil {
				return "", fmt.Errorf("%s 的班次 %s: %w", day.Date, shift.ShiftKey, err)
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%s-%s@ward-roster", staff.ID, day.Date, shift.ShiftKey))
			event.SetDtStampTime(stamp)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(shift.Name)
			if shift.Note != "" {
				event.SetDescription(shift.Note)
			}
		}
	}

	return cal.Serialize(), nil
}

func shiftWindow(date time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	start, err := atClock(date, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(date, endClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func atClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间 %q 格式错误", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

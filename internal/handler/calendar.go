package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/export"
	"github.com/ward-roster/roster/backend/internal/roster"
)

type staffCalendar struct {
	Staff    domain.Staff         `json:"staff"`
	Shifts   []roster.CalendarDay `json:"shifts"`
	Absences []domain.Absence     `json:"absences"`
}

// loadStaffCalendar 出错时已经写好响应，调用方直接返回即可
func (h *Handler) loadStaffCalendar(w http.ResponseWriter, r *http.Request) (*staffCalendar, bool) {
	period, err := h.readPeriod(r)
	if err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	staffID := chi.URLParam(r, "staffID")
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}
	member, ok := domain.NewDirectory(staff).Lookup(staffID)
	if !ok {
		h.errorResponse(w, r, "员工不存在")
		return nil, false
	}

	grids, err := h.repository.GetSchedulesByPeriod(period.Year, period.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}
	absences, err := h.repository.GetAllAbsences()
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}

	return &staffCalendar{
		Staff:    member,
		Shifts:   roster.CalendarFor(grids, h.catalog, staffID),
		Absences: roster.AbsencesIn(absences, staffID, period),
	}, true
}

func (h *Handler) GetStaffCalendar(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.loadStaffCalendar(w, r)
	if !ok {
		return
	}

	h.successResponse(w, r, "获取员工日历成功", cal)
}

func (h *Handler) GetStaffCalendarICS(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.loadStaffCalendar(w, r)
	if !ok {
		return
	}

	text, err := export.StaffCalendar(cal.Staff, cal.Shifts, h.location, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeFile(w, "text/calendar; charset=utf-8", fmt.Sprintf("%s.ics", cal.Staff.ID), []byte(text))
}

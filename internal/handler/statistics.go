package handler

import (
	"net/http"

	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/roster"
)

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	period, err := h.readPeriod(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	grids, err := h.repository.GetSchedulesByPeriod(period.Year, period.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	absences, err := h.repository.GetAllAbsences()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	wishes, err := h.repository.GetAllWishes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stats := roster.Tally(grids, h.catalog, domain.NewDirectory(staff), absences, roster.NewWishIndex(wishes), period)
	h.successResponse(w, r, "获取统计数据成功", stats)
}

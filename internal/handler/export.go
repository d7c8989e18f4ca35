package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/export"
)

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	my, err := h.readMonthYear(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorResponse(w, r, "format 只能是 csv 或 xlsx")
		return
	}

	grid, err := h.repository.GetSchedule(my.Month, my.Year)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该月暂无排班表")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	dir := domain.NewDirectory(staff)

	filename := fmt.Sprintf("schedule_%d_%02d.%s", my.Year, my.Month, format)
	switch format {
	case "xlsx":
		buf, err := export.Workbook(grid, h.catalog, dir)
		if err != nil {
			h.exportError(w, r, err)
			return
		}
		h.writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, buf.Bytes())
	default:
		text, err := export.DelimitedText(grid, h.catalog, dir)
		if err != nil {
			h.exportError(w, r, err)
			return
		}
		h.writeFile(w, "text/csv; charset=utf-8", filename, []byte(text))
	}
}

func (h *Handler) exportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, export.ErrEmptyGrid):
		h.errorResponse(w, r, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/repository"
	"github.com/ward-roster/roster/backend/internal/utils"
)

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staff)
}

func (h *Handler) ReplaceStaff(w http.ResponseWriter, r *http.Request) {
	var req []domain.Staff
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	for _, s := range req {
		if err := h.validate.Struct(s); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if err := utils.ValidateStaffList(req, h.catalog); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceStaff(req); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateID):
			h.errorResponse(w, r, "员工 ID 重复")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "保存员工列表成功", nil)
}

func (h *Handler) GetAllAbsences(w http.ResponseWriter, r *http.Request) {
	absences, err := h.repository.GetAllAbsences()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取缺勤列表成功", absences)
}

func (h *Handler) ReplaceAbsences(w http.ResponseWriter, r *http.Request) {
	var req []domain.Absence
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	for _, a := range req {
		if err := h.validate.Struct(a); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if err := utils.ValidateAbsences(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceAbsences(req); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateID):
			h.errorResponse(w, r, "缺勤记录 ID 重复")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "保存缺勤列表成功", req)
}

func (h *Handler) GetAllWishes(w http.ResponseWriter, r *http.Request) {
	wishes, err := h.repository.GetAllWishes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取意愿列表成功", wishes)
}

func (h *Handler) ReplaceWishes(w http.ResponseWriter, r *http.Request) {
	var req []domain.Wish
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.storeWishes(w, r, req)
}

func (h *Handler) storeWishes(w http.ResponseWriter, r *http.Request, wishes []domain.Wish) {
	for _, wish := range wishes {
		if err := h.validate.Struct(wish); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if err := utils.ValidateWishes(wishes, h.catalog); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceWishes(wishes); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateID):
			h.errorResponse(w, r, "意愿 ID 重复")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "保存意愿列表成功", wishes)
}

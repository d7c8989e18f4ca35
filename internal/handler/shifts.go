package handler

import "net/http"

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取班次定义成功", h.catalog.Definitions())
}

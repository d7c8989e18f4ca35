package handler

import (
	"context"
	"net/http"
	"time"
)

// Debug 不需要认证，用于检查服务及其依赖是否可用
func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
		"shifts": h.catalog.Len(),
	}

	if h.repository != nil {
		status["database"] = h.repository.Ping() == nil
	}
	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
		defer cancel()
		status["redis"] = h.redisClient.Ping(ctx).Err() == nil
	}

	h.successResponse(w, r, "API 正在运行", status)
}

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/roster"
)

func scheduleCacheKey(month, year int) string {
	return fmt.Sprintf("schedule_%d_%02d", year, month)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	my, err := h.readMonthYear(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	key := scheduleCacheKey(my.Month, my.Year)
	cached, err := h.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		h.successResponse(w, r, "获取排班表成功", json.RawMessage(cached))
		return
	case !errors.Is(err, redis.Nil):
		// 缓存不可用时直接查数据库
		slog.Warn("读取排班表缓存失败", "key", key, "error", err)
	}

	grid, err := h.repository.GetSchedule(my.Month, my.Year)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "该月暂无排班表", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if raw, err := json.Marshal(grid); err == nil {
		if err := h.redisClient.Set(ctx, key, raw, time.Duration(h.config.Redis.CacheTTL)*time.Second).Err(); err != nil {
			slog.Warn("写入排班表缓存失败", "key", key, "error", err)
		}
	}

	h.successResponse(w, r, "获取排班表成功", grid)
}

// SaveSchedule 整表覆盖，返回的 warnings 只是提示，不会阻止保存
func (h *Handler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month    int                 `json:"month" validate:"required,min=1,max=12"`
		Year     int                 `json:"year" validate:"required,min=1970,max=9999"`
		Schedule domain.ScheduleGrid `json:"schedule" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertSchedule(req.Month, req.Year, req.Schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()
	if err := h.redisClient.Del(ctx, scheduleCacheKey(req.Month, req.Year)).Err(); err != nil {
		slog.Warn("清除排班表缓存失败", "error", err)
	}

	// 排班表已经保存，通知失败只记录日志
	if err := h.publishScheduleSaved(req.Month, req.Year, req.Schedule); err != nil {
		slog.Error("无法发送排班表更新通知", "error", err)
	}

	var warnings []roster.Warning
	if staff, err := h.repository.GetAllStaff(); err == nil {
		warnings = roster.CheckIntegrity(req.Schedule, domain.NewDirectory(staff))
	} else {
		slog.Warn("无法获取员工列表，跳过完整性检查", "error", err)
	}

	h.successResponse(w, r, "保存排班表成功", map[string]any{
		"warnings": warnings,
	})
}

func (h *Handler) publishScheduleSaved(month, year int, grid domain.ScheduleGrid) error {
	data := domain.ScheduleSavedMailData{Month: month, Year: year, Days: len(grid)}
	for _, day := range grid {
		for _, a := range day.Shifts {
			if a.IsStaffed() {
				data.StaffedShifts++
			} else {
				data.OpenShifts++
			}
		}
	}

	mailData, err := json.Marshal(domain.MailMessage{
		Type: domain.MailTypeScheduleSaved,
		To:   h.config.Email.NotifyAddress,
		Data: data,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ward-roster/roster/backend/internal/domain"
)

const generatorStatusSuccess = "success"

type generateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type generateResponse struct {
	Status   string              `json:"status"`
	Message  string              `json:"message"`
	Schedule domain.ScheduleGrid `json:"schedule"`
}

// Generate 调用外部排班服务，返回的排班表原样交给调用方，不做任何校验
func (c *Client) Generate(ctx context.Context, month, year int) (domain.ScheduleGrid, error) {
	target := c.generatorURL + "/generate-schedule"
	resp, err := c.do(ctx, http.MethodPost, target, generateRequest{Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: 排班服务返回了无法解析的响应: %w", ErrTransport, err)
	}
	if out.Status != generatorStatusSuccess {
		return nil, fmt.Errorf("%w: 排班服务返回状态 %q: %s", ErrTransport, out.Status, out.Message)
	}
	return out.Schedule, nil
}

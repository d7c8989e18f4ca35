package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ward-roster/roster/backend/internal/domain"
)

// ErrTransport 表示远程调用没有成功提交：网络错误、非 2xx 状态码或响应中没有成功标记
var ErrTransport = errors.New("远程调用失败")

type Options struct {
	BaseURL      string
	GeneratorURL string
	Token        string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// Client 只负责传输，不校验排班表内容
type Client struct {
	baseURL      string
	generatorURL string
	token        string
	http         *http.Client
	logger       *slog.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	generatorURL := opts.GeneratorURL
	if generatorURL == "" {
		generatorURL = opts.BaseURL
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		generatorURL: strings.TrimRight(generatorURL, "/"),
		token:        opts.Token,
		http:         httpClient,
		logger:       logger,
	}
}

// envelope 与服务端的响应格式一致
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type saveScheduleRequest struct {
	Month    int                 `json:"month"`
	Year     int                 `json:"year"`
	Schedule domain.ScheduleGrid `json:"schedule"`
}

// LoadSchedule 返回的 bool 表示远程是否存在该月的排班表
func (c *Client) LoadSchedule(ctx context.Context, month, year int) (domain.ScheduleGrid, bool, error) {
	q := url.Values{}
	q.Set("month", strconv.Itoa(month))
	q.Set("year", strconv.Itoa(year))

	data, err := c.call(ctx, http.MethodGet, "/api/schedule?"+q.Encode(), nil)
	if err != nil {
		return nil, false, err
	}
	if isNull(data) {
		return nil, false, nil
	}

	var grid domain.ScheduleGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, false, fmt.Errorf("%w: 无法解析排班表: %w", ErrTransport, err)
	}
	return grid, true, nil
}

// SaveSchedule 整表覆盖远程排班表，最后一次写入生效
func (c *Client) SaveSchedule(ctx context.Context, month, year int, grid domain.ScheduleGrid) error {
	_, err := c.call(ctx, http.MethodPost, "/api/schedule", saveScheduleRequest{
		Month:    month,
		Year:     year,
		Schedule: grid,
	})
	return err
}

func (c *Client) Shifts(ctx context.Context) ([]domain.ShiftDefinition, error) {
	var defs []domain.ShiftDefinition
	if err := c.fetch(ctx, "/api/shifts", &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (c *Client) Staff(ctx context.Context) ([]domain.Staff, error) {
	var staff []domain.Staff
	if err := c.fetch(ctx, "/api/staff", &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) Wishes(ctx context.Context) ([]domain.Wish, error) {
	var wishes []domain.Wish
	if err := c.fetch(ctx, "/api/wishes", &wishes); err != nil {
		return nil, err
	}
	return wishes, nil
}

func (c *Client) Absences(ctx context.Context) ([]domain.Absence, error) {
	var absences []domain.Absence
	if err := c.fetch(ctx, "/api/absences", &absences); err != nil {
		return nil, err
	}
	return absences, nil
}

func (c *Client) fetch(ctx context.Context, path string, v any) error {
	data, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if isNull(data) {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: 无法解析 %s 的响应: %w", ErrTransport, path, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	resp, err := c.do(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s %s 返回了无法解析的响应: %w", ErrTransport, method, path, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrTransport, env.Message)
	}
	return env.Data, nil
}

// do 发出请求并检查状态码，调用方负责关闭 Body
func (c *Client) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("远程调用失败", "method", method, "url", target, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	c.logger.Debug("远程调用完成", "method", method, "url", target, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s 返回状态码 %d: %s", ErrTransport, method, target, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

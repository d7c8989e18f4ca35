package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/config"
	"github.com/xuri/excelize/v2"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Calendar.TimeZone = "UTC"
	cfg.Server.MaxUploadSize = 1 << 20

	h, err := NewHandler(cfg, nil, c, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, AuthClaims{
		Role: "planner",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h *Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestDebugNeedsNoToken(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := do(t, h, httptest.NewRequest(http.MethodGet, "/api/debug", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.EqualValues(t, 9, data["shifts"])
}

func TestAuth(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"wrong method", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec, resp := do(t, h, req)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.want == http.StatusOK, resp.Success)
		})
	}
}

func TestGetShiftsOrdered(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256))

	_, resp := do(t, h, req)
	require.True(t, resp.Success)

	defs := resp.Data.([]any)
	keys := make([]string, 0, len(defs))
	for _, d := range defs {
		keys = append(keys, d.(map[string]any)["key"].(string))
	}
	assert.Equal(t, h.catalog.OrderedKeys(), keys)
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/api/debug", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/debug", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec, _ = do(t, h, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRecoverer(t *testing.T) {
	h := newTestHandler(t)
	h.Mux.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec, resp := do(t, h, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "服务器内部错误", resp.Message)
}

func TestScheduleQueryValidation(t *testing.T) {
	h := newTestHandler(t)
	token := "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256)

	for _, target := range []string{
		"/api/schedule",
		"/api/schedule?month=13&year=2024",
		"/api/schedule?month=x&year=2024",
		"/api/schedule/export?month=0&year=2024",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", token)
		rec, resp := do(t, h, req)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.False(t, resp.Success, target)
		assert.NotEmpty(t, resp.Message, target)
	}
}

func TestUploadWishesRejectsOtherFormats(t *testing.T) {
	h := newTestHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "wishes.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Staff ID,Date,Shift\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/wishes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256))

	_, resp := do(t, h, req)
	assert.False(t, resp.Success)
	assert.Equal(t, "只支持 xlsx 文件", resp.Message)
}

func TestParseWishWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Staff ID", "Date", "Shift", "Note"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"S1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "ICU_night", "bitte"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"S2", "2024-04-02", "HD"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wishes, err := parseWishWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, wishes, 2)
	assert.Equal(t, "S1", wishes[0].StaffID)
	assert.Equal(t, "2024-04-01", wishes[0].Date)
	assert.Equal(t, "ICU_night", wishes[0].Shift)
	assert.Equal(t, "bitte", wishes[0].Note)
	assert.Equal(t, "2024-04-02", wishes[1].Date)
	assert.Empty(t, wishes[1].Note)
}

func TestParseWishWorkbookMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Staff ID", "Shift"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := parseWishWorkbook(&buf)
	assert.ErrorContains(t, err, "Date")
}

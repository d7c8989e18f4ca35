package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

var wishColumns = []string{"Staff ID", "Date", "Shift"}

// UploadWishes 接收一个 xlsx 文件，用其中的意愿替换现有的全部意愿
func (h *Handler) UploadWishes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "缺少上传文件")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		h.errorResponse(w, r, "只支持 xlsx 文件")
		return
	}

	wishes, err := parseWishWorkbook(file)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.storeWishes(w, r, wishes)
}

// parseWishWorkbook 读取第一个工作表，表头必须包含 Staff ID、Date、Shift，Note 列可选
func parseWishWorkbook(rd io.Reader) ([]domain.Wish, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("无法读取 Excel 文件: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("Excel 文件中没有工作表")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("无法读取工作表: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("工作表为空")
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		columns[strings.TrimSpace(h)] = i
	}
	for _, c := range wishColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("缺少必需的列 %s", c)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	wishes := make([]domain.Wish, 0, len(rows)-1)
	for n, row := range rows[1:] {
		staffID := cell(row, "Staff ID")
		if staffID == "" && cell(row, "Date") == "" && cell(row, "Shift") == "" {
			continue
		}

		date, err := parseSheetDate(cell(row, "Date"))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的日期无效", n+2)
		}
		wishes = append(wishes, domain.Wish{
			StaffID: staffID,
			Date:    date,
			Shift:   cell(row, "Shift"),
			Note:    cell(row, "Note"),
		})
	}

	return wishes, nil
}

// parseSheetDate 同时支持文本日期和 Excel 的日期序列号
func parseSheetDate(v string) (string, error) {
	if t, err := time.Parse(domain.DateLayout, v); err == nil {
		return t.Format(domain.DateLayout), nil
	}

	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "", err
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", err
	}
	return t.Format(domain.DateLayout), nil
}

package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ward-roster/roster/backend/internal/domain"
)

var requiredHeaders = []string{"ID", "Name"}

// LoadStaffCSV 读取员工名单，表头至少包含 ID 和 Name，
// 可选 Role、Email、Capabilities（逗号加空格分隔）、RequiredShifts
func LoadStaffCSV(rd io.Reader) ([]domain.Staff, error) {
	reader := csv.NewReader(rd)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("文件为空")
		}
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, h := range requiredHeaders {
		found := false
		for _, header := range headers {
			if header == h {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("没有找到 %s 列", h)
		}
	}

	// 读取数据
	var staff []domain.Staff
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}
		line++

		record := make(map[string]string, len(headers))
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		if record["ID"] == "" {
			return nil, fmt.Errorf("第 %d 行没有 ID", line)
		}

		s := domain.Staff{
			ID:    record["ID"],
			Name:  record["Name"],
			Role:  record["Role"],
			Email: record["Email"],
		}
		for _, key := range strings.Split(record["Capabilities"], ", ") {
			if key = strings.TrimSpace(key); key != "" {
				s.Capabilities = append(s.Capabilities, key)
			}
		}
		if v := record["RequiredShifts"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行的 RequiredShifts 不是整数", line)
			}
			s.RequiredShifts = n
		}

		staff = append(staff, s)
	}

	return staff, nil
}

package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ward-roster/roster/backend/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type documentDay struct {
	Date    string                       `json:"date" validate:"required"`
	Day     int                          `json:"day" validate:"required"`
	Weekday string                       `json:"weekday" validate:"required"`
	Shifts  map[string]domain.Assignment `json:"shifts" validate:"required"`
}

// ParseDocument 解析 JSON 数组形式的排班表，任意一天缺少必需字段都会导致整个导入失败
func ParseDocument(data []byte) (domain.ScheduleGrid, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, structural("文件为空")
	}

	var days []documentDay
	if err := json.Unmarshal(data, &days); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return nil, structural("应为由每天排班组成的数组")
		}
		return nil, fmt.Errorf("%w: %w", ErrStructural, err)
	}

	grid := make(domain.ScheduleGrid, 0, len(days))
	for i, d := range days {
		if err := validate.Struct(d); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, structural("第 %d 天缺少字段 %s", i+1, jsonName(verrs[0].Field()))
			}
			return nil, fmt.Errorf("%w: %w", ErrStructural, err)
		}
		grid = append(grid, domain.DayRecord{
			Date:    d.Date,
			Day:     d.Day,
			Weekday: d.Weekday,
			Shifts:  d.Shifts,
		})
	}

	return grid, nil
}

func jsonName(field string) string {
	switch field {
	case "Date":
		return "date"
	case "Day":
		return "day"
	case "Weekday":
		return "weekday"
	case "Shifts":
		return "shifts"
	}
	return field
}

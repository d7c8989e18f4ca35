package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ward-roster/roster/backend/internal/roster"
)

type monthYear struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=1970,max=9999"`
}

func (h *Handler) readMonthYear(r *http.Request) (monthYear, error) {
	q := r.URL.Query()
	if q.Get("month") == "" || q.Get("year") == "" {
		return monthYear{}, errors.New("month 和 year 不能为空")
	}

	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return monthYear{}, errors.New("month 必须是整数")
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return monthYear{}, errors.New("year 必须是整数")
	}

	my := monthYear{Month: month, Year: year}
	if err := h.validate.Struct(my); err != nil {
		return monthYear{}, err
	}
	return my, nil
}

// readPeriod 中 year 默认为今年，month 可以省略
func (h *Handler) readPeriod(r *http.Request) (roster.Period, error) {
	q := r.URL.Query()
	period := roster.Period{Year: time.Now().In(h.location).Year()}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return roster.Period{}, errors.New("year 必须是整数")
		}
		period.Year = year
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return roster.Period{}, errors.New("month 必须是 1 到 12 之间的整数")
		}
		period.Month = month
	}

	return period, nil
}

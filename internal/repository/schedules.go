package repository

import (
	"encoding/json"

	"github.com/ward-roster/roster/backend/internal/domain"
)

// GetSchedule 在该月没有排班表时返回 sql.ErrNoRows
func (r *Repository) GetSchedule(month, year int) (domain.ScheduleGrid, error) {
	query := `SELECT grid FROM schedules WHERE year = $1 AND month = $2`

	ctx, cancel := r.queryContext()
	defer cancel()

	var raw []byte
	if err := r.dbpool.QueryRowContext(ctx, query, year, month).Scan(&raw); err != nil {
		return nil, err
	}

	var grid domain.ScheduleGrid
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, err
	}

	return grid, nil
}

// UpsertSchedule 整表覆盖，最后一次写入生效
func (r *Repository) UpsertSchedule(month, year int, grid domain.ScheduleGrid) error {
	query := `
		INSERT INTO schedules (year, month, grid)
		VALUES ($1, $2, $3)
		ON CONFLICT (year, month) DO UPDATE
		SET grid = EXCLUDED.grid, updated_at = NOW(), version = schedules.version + 1
	`

	raw, err := json.Marshal(grid)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err = r.dbpool.ExecContext(ctx, query, year, month, raw)
	return err
}

// GetSchedulesByPeriod 返回某年（month 为 0 时）或某月的所有排班表，按月份升序
func (r *Repository) GetSchedulesByPeriod(year, month int) ([]domain.ScheduleGrid, error) {
	query := `
		SELECT grid FROM schedules
		WHERE year = $1 AND ($2 = 0 OR month = $2)
		ORDER BY month
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grids := make([]domain.ScheduleGrid, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		var grid domain.ScheduleGrid
		if err := json.Unmarshal(raw, &grid); err != nil {
			return nil, err
		}
		grids = append(grids, grid)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grids, nil
}

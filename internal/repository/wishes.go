package repository

import (
	"github.com/google/uuid"
	"github.com/ward-roster/roster/backend/internal/domain"
)

func (r *Repository) GetAllWishes() ([]domain.Wish, error) {
	query := `
		SELECT id, staff_id, to_char(date, 'YYYY-MM-DD'), shift, note
		FROM wishes ORDER BY date, staff_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wishes := make([]domain.Wish, 0)
	for rows.Next() {
		var w domain.Wish
		if err := rows.Scan(&w.ID, &w.StaffID, &w.Date, &w.Shift, &w.Note); err != nil {
			return nil, err
		}
		wishes = append(wishes, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wishes, nil
}

// ReplaceWishes 替换全部意愿，ID 为空的记录会分配新的 ID
func (r *Repository) ReplaceWishes(wishes []domain.Wish) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wishes`); err != nil {
		return err
	}

	query := `INSERT INTO wishes (id, staff_id, date, shift, note) VALUES ($1, $2, $3, $4, $5)`
	for i := range wishes {
		if wishes[i].ID == "" {
			wishes[i].ID = uuid.NewString()
		}
		w := wishes[i]
		if _, err := tx.ExecContext(ctx, query, w.ID, w.StaffID, w.Date, w.Shift, w.Note); err != nil {
			return uniqueViolation(err)
		}
	}

	return tx.Commit()
}

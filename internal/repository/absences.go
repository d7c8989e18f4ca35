package repository

import (
	"github.com/google/uuid"
	"github.com/ward-roster/roster/backend/internal/domain"
)

func (r *Repository) GetAllAbsences() ([]domain.Absence, error) {
	query := `
		SELECT id, staff_id, type, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status
		FROM absences ORDER BY start_date, staff_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences := make([]domain.Absence, 0)
	for rows.Next() {
		var a domain.Absence
		dst := []any{&a.ID, &a.StaffID, &a.Type, &a.StartDate, &a.EndDate, &a.Status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}

func (r *Repository) ReplaceAbsences(absences []domain.Absence) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM absences`); err != nil {
		return err
	}

	query := `
		INSERT INTO absences (id, staff_id, type, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range absences {
		if absences[i].ID == "" {
			absences[i].ID = uuid.NewString()
		}
		a := absences[i]
		if _, err := tx.ExecContext(ctx, query, a.ID, a.StaffID, a.Type, a.StartDate, a.EndDate, a.Status); err != nil {
			return uniqueViolation(err)
		}
	}

	return tx.Commit()
}

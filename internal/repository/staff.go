package repository

import (
	"encoding/json"

	"github.com/ward-roster/roster/backend/internal/domain"
)

func (r *Repository) GetAllStaff() ([]domain.Staff, error) {
	query := `
		SELECT id, name, role, email, capabilities, required_shifts
		FROM staff ORDER BY position
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]domain.Staff, 0)
	for rows.Next() {
		var (
			s    domain.Staff
			caps []byte
		)
		dst := []any{&s.ID, &s.Name, &s.Role, &s.Email, &caps, &s.RequiredShifts}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(caps, &s.Capabilities); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staff, nil
}

// ReplaceStaff 用新的员工列表替换全部员工，保留列表顺序
func (r *Repository) ReplaceStaff(staff []domain.Staff) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM staff`); err != nil {
		return err
	}

	query := `
		INSERT INTO staff (id, name, role, email, capabilities, required_shifts, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, s := range staff {
		caps := s.Capabilities
		if caps == nil {
			caps = []string{}
		}
		raw, err := json.Marshal(caps)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, s.ID, s.Name, s.Role, s.Email, raw, s.RequiredShifts, i); err != nil {
			return uniqueViolation(err)
		}
	}

	return tx.Commit()
}

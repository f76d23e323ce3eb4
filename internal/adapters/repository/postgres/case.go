package postgres

import (
	"context"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

type sqlCaseRepository struct {
	db SQLQuerier
}

// NewSQLCaseRepository creates a case lookup backed by postgres
func NewSQLCaseRepository(db SQLQuerier) port.CaseRepository {
	return &sqlCaseRepository{db: db}
}

// Exists reports whether a case with id exists
func (s *sqlCaseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

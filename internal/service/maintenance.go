package service

import (
	"context"
	"database/sql"
	"fmt"
)

// MaintenanceService houses database housekeeping surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Vacuum rebuilds the database file, returning space freed by a clear.
func (s *MaintenanceService) Vacuum(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

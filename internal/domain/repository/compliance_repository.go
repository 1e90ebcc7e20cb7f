package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// ComplianceRepository consultas agregadas para el tablero de cumplimiento (solo lectura).
type ComplianceRepository interface {
	// ProjectCompliance calcula, por proyecto, categorías obligatorias vs cubiertas
	// con un documento o formato aprobado y no vencido a la fecha today.
	ProjectCompliance(ctx context.Context, projectIDs []string, today time.Time) ([]*entity.ProjectCompliance, error)
}

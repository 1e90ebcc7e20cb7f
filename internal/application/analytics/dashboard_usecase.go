// Package analytics contiene los reportes del portal: tablero de cumplimiento
// normativo y listado maestro de documentos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// DashboardUseCase calcula el cumplimiento por proyecto visible.
//
// Fuente de datos: ComplianceRepository (consultas read-only). Un proyecto cumple
// una categoría obligatoria cuando tiene al menos un documento o formato aprobado
// y no vencido en ella.
type DashboardUseCase struct {
	access *access.Service
	repo   repository.ComplianceRepository
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(acc *access.Service, repo repository.ComplianceRepository) *DashboardUseCase {
	return &DashboardUseCase{access: acc, repo: repo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetCompliance tablero de cumplimiento; companyID opcional limita a una empresa.
func (uc *DashboardUseCase) GetCompliance(ctx context.Context, u *entity.User, companyID string) (*dto.ComplianceDashboardDTO, error) {
	projects, err := uc.access.VisibleProjects(ctx, u, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.ComplianceDashboardDTO{Projects: []dto.ProjectComplianceDTO{}, Overall: hundred}
	if len(projects) == 0 {
		return out, nil
	}
	rows, err := uc.repo.ProjectCompliance(ctx, rules.ProjectIDs(projects), uc.now())
	if err != nil {
		return nil, fmt.Errorf("dashboard: cumplimiento: %w", err)
	}

	// ── Consolidado ────────────────────────────────────────────────────────────
	var required, covered int
	for _, r := range rows {
		required += r.RequiredCategories
		covered += r.CoveredCategories
		missing := r.MissingCategories
		if missing == nil {
			missing = []string{}
		}
		out.Projects = append(out.Projects, dto.ProjectComplianceDTO{
			ProjectID:          r.ProjectID,
			ProjectSite:        r.ProjectSite,
			RequiredCategories: r.RequiredCategories,
			CoveredCategories:  r.CoveredCategories,
			Percentage:         r.Percentage.Round(2),
			MissingCategories:  missing,
		})
	}
	out.Overall = Percentage(covered, required)
	return out, nil
}

// Percentage covered/required*100 con 2 decimales; sin requisitos es 100.
func Percentage(covered, required int) decimal.Decimal {
	if required == 0 {
		return hundred
	}
	return decimal.NewFromInt(int64(covered)).Mul(hundred).
		Div(decimal.NewFromInt(int64(required))).Round(2)
}

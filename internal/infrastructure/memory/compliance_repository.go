package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.ComplianceRepository = (*ComplianceRepo)(nil)

// ComplianceRepo cálculo del tablero de cumplimiento sobre el estado en memoria.
type ComplianceRepo struct{ v view }

// NewComplianceRepository construye el repositorio.
func NewComplianceRepository(s *Store) *ComplianceRepo { return &ComplianceRepo{v: view{store: s}} }

func (r *ComplianceRepo) ProjectCompliance(_ context.Context, projectIDs []string, today time.Time) ([]*entity.ProjectCompliance, error) {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var out []*entity.ProjectCompliance
	r.v.read(func(st *state) {
		var required []entity.DocumentCategory
		for _, c := range st.categories {
			if c.Active && c.Required {
				required = append(required, c)
			}
		}
		sort.Slice(required, func(i, j int) bool { return required[i].Name < required[j].Name })

		for _, pid := range projectIDs {
			p, ok := st.projects[pid]
			if !ok {
				continue
			}
			covered := map[string]bool{}
			for _, byKind := range st.controlled {
				for _, c := range byKind {
					if c.ProjectID != pid || c.Status != entity.StatusApproved {
						continue
					}
					if c.ExpirationDate != nil {
						ey, em, ed := c.ExpirationDate.Date()
						if time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Before(day) {
							continue
						}
					}
					covered[c.CategoryID] = true
				}
			}
			pc := &entity.ProjectCompliance{
				ProjectID:          p.ID,
				ProjectSite:        p.Site,
				RequiredCategories: len(required),
				MissingCategories:  []string{},
			}
			for _, c := range required {
				if covered[c.ID] {
					pc.CoveredCategories++
				} else {
					pc.MissingCategories = append(pc.MissingCategories, c.Name)
				}
			}
			pc.Percentage = decimal.NewFromInt(100)
			if pc.RequiredCategories > 0 {
				pc.Percentage = decimal.NewFromInt(int64(pc.CoveredCategories * 100)).
					Div(decimal.NewFromInt(int64(pc.RequiredCategories))).Round(2)
			}
			out = append(out, pc)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectSite < out[j].ProjectSite })
	return out, nil
}

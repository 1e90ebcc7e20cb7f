package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// MasterListUseCase listado maestro de documentos y formatos de una empresa.
// Sin acceso global, además de ver el proyecto hay que figurar en los roles del elemento.
type MasterListUseCase struct {
	access     *access.Service
	companies  repository.CompanyRepository
	categories repository.CategoryRepository
	controlled repository.ControlledRepository
	roles      repository.RoleAssignmentRepository
	pdf        ports.MasterListPDFGenerator
	now        func() time.Time
}

// NewMasterListUseCase construye el caso de uso.
func NewMasterListUseCase(
	acc *access.Service,
	companies repository.CompanyRepository,
	categories repository.CategoryRepository,
	controlled repository.ControlledRepository,
	roles repository.RoleAssignmentRepository,
	pdf ports.MasterListPDFGenerator,
) *MasterListUseCase {
	return &MasterListUseCase{
		access:     acc,
		companies:  companies,
		categories: categories,
		controlled: controlled,
		roles:      roles,
		pdf:        pdf,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *MasterListUseCase) WithClock(now func() time.Time) *MasterListUseCase {
	uc.now = now
	return uc
}

// Build arma el listado maestro de la empresa.
func (uc *MasterListUseCase) Build(ctx context.Context, u *entity.User, companyID string) (*dto.MasterListResponse, error) {
	if !u.IsAdmin() && companyID != u.CompanyID {
		return nil, domain.ErrPermissionDenied
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	out := &dto.MasterListResponse{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		CompanyNIT:  company.TaxID,
		GeneratedAt: now,
		Rows:        []dto.MasterListRow{},
	}
	projects, err := uc.access.VisibleProjects(ctx, u, companyID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return out, nil
	}
	byID := make(map[string]*entity.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	ids := rules.ProjectIDs(projects)

	// ── Documentos y formatos en paralelo ──────────────────────────────────────
	type kindResult struct {
		items []*entity.Controlled
		roles map[string][]*entity.RoleAssignment
		err   error
	}
	load := func(kind entity.Kind, ch chan<- kindResult) {
		items, err := uc.controlled.ListByProjects(ctx, kind, ids)
		if err != nil {
			ch <- kindResult{err: err}
			return
		}
		entityIDs := make([]string, 0, len(items))
		for _, c := range items {
			entityIDs = append(entityIDs, c.ID)
		}
		roles, err := uc.roles.ListByEntities(ctx, kind, entityIDs)
		ch <- kindResult{items: items, roles: roles, err: err}
	}
	docsCh := make(chan kindResult, 1)
	formatsCh := make(chan kindResult, 1)
	go load(entity.KindDocument, docsCh)
	go load(entity.KindRecord, formatsCh)
	docs, formats := <-docsCh, <-formatsCh
	if docs.err != nil {
		return nil, fmt.Errorf("listado maestro: documentos: %w", docs.err)
	}
	if formats.err != nil {
		return nil, fmt.Errorf("listado maestro: formatos: %w", formats.err)
	}

	cats, err := uc.categories.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listado maestro: categorías: %w", err)
	}
	catName := make(map[string]string, len(cats))
	for _, c := range cats {
		catName[c.ID] = c.Name
	}

	for _, res := range []kindResult{docs, formats} {
		for _, c := range res.items {
			p := byID[c.ProjectID]
			assigned := res.roles[c.ID]
			if !rules.MasterListVisible(u, p, assigned) {
				continue
			}
			row := dto.MasterListRow{
				Type:           string(c.Kind),
				ID:             c.ID,
				Code:           c.Code,
				Name:           c.Name,
				Version:        c.Version,
				Status:         string(lifecycle.EffectiveStatus(c, now)),
				Category:       catName[c.CategoryID],
				ProjectID:      p.ID,
				ProjectSite:    p.Site,
				ExpirationDate: c.ExpirationDate,
				Elaborators:    []string{},
				Reviewers:      []string{},
				Approvers:      []string{},
			}
			for _, ra := range assigned {
				name := ra.FirstName + " " + ra.LastName
				switch ra.Role {
				case entity.RoleElaborator:
					row.Elaborators = append(row.Elaborators, name)
				case entity.RoleReviewer:
					row.Reviewers = append(row.Reviewers, name)
				case entity.RoleApprover:
					row.Approvers = append(row.Approvers, name)
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Name < b.Name
	})
	return out, nil
}

// BuildPDF genera el listado maestro en PDF. Devuelve bytes y nombre de archivo.
func (uc *MasterListUseCase) BuildPDF(ctx context.Context, u *entity.User, companyID string) ([]byte, string, error) {
	list, err := uc.Build(ctx, u, companyID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.Generate(list)
	if err != nil {
		return nil, "", fmt.Errorf("listado maestro: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("listado-maestro-%s-%s.pdf", list.CompanyNIT, list.GeneratedAt.Format("20060102"))
	return b, filename, nil
}

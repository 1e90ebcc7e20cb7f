package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// ProjectUseCase casos de uso de proyectos. Los listados pasan por el resolvedor de acceso.
type ProjectUseCase struct {
	projects  repository.ProjectRepository
	companies repository.CompanyRepository
	access    *access.Service
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(projects repository.ProjectRepository, companies repository.CompanyRepository, acc *access.Service) *ProjectUseCase {
	return &ProjectUseCase{projects: projects, companies: companies, access: acc}
}

// Create registra un proyecto para una empresa existente (solo admin, lo exige la ruta).
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if strings.TrimSpace(in.Site) == "" {
		return nil, fmt.Errorf("%w: la sede es obligatoria", domain.ErrValidation)
	}
	company, err := uc.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	contacts, err := toContacts(in.Contacts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Project{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Site:        strings.TrimSpace(in.Site),
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Active:      true,
		Status:      in.Status,
		Contacts:    contacts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromProject(p)
	return &out, nil
}

// Update modifica datos del proyecto. La empresa nunca cambia.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Site != nil {
		if strings.TrimSpace(*in.Site) == "" {
			return nil, fmt.Errorf("%w: la sede es obligatoria", domain.ErrValidation)
		}
		p.Site = strings.TrimSpace(*in.Site)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.EndDate != nil {
		end, err := parseOptionalDate(in.EndDate)
		if err != nil {
			return nil, err
		}
		p.EndDate = end
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Contacts != nil {
		contacts, err := toContacts(*in.Contacts)
		if err != nil {
			return nil, err
		}
		p.Contacts = contacts
	}
	p.UpdatedAt = time.Now()
	if err := uc.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromProject(p)
	return &out, nil
}

// Get proyecto visible para el usuario.
func (uc *ProjectUseCase) Get(ctx context.Context, u *entity.User, id string) (*dto.ProjectResponse, error) {
	p, err := uc.access.AuthorizeProject(ctx, u, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromProject(p)
	return &out, nil
}

// ListVisible proyectos visibles; companyID opcional limita a una empresa.
func (uc *ProjectUseCase) ListVisible(ctx context.Context, u *entity.User, companyID string) ([]dto.ProjectResponse, error) {
	list, err := uc.access.VisibleProjects(ctx, u, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromProject(p))
	}
	return out, nil
}

func toContacts(in []dto.ContactDTO) ([]entity.Contact, error) {
	out := make([]entity.Contact, 0, len(in))
	for _, c := range in {
		email := strings.TrimSpace(c.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: email de contacto %q", domain.ErrValidation, c.Email)
		}
		out = append(out, entity.Contact{Name: strings.TrimSpace(c.Name), Email: email})
	}
	return out, nil
}

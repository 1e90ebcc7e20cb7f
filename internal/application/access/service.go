// Package access expone el resolvedor de visibilidad a los casos de uso. Es el
// único punto que decide qué proyectos, documentos, formatos y registros ve un usuario.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// Service resolvedor de acceso.
type Service struct {
	projects   repository.ProjectRepository
	controlled repository.ControlledRepository
	entries    repository.RecordEntryRepository
}

// NewService construye el resolvedor.
func NewService(
	projects repository.ProjectRepository,
	controlled repository.ControlledRepository,
	entries repository.RecordEntryRepository,
) *Service {
	return &Service{projects: projects, controlled: controlled, entries: entries}
}

// VisibleProjects proyectos activos visibles. companyScope limita a una empresa (vista por empresa).
func (s *Service) VisibleProjects(ctx context.Context, u *entity.User, companyScope string) ([]*entity.Project, error) {
	if u == nil || !u.Active {
		return nil, nil
	}
	query := companyScope
	if !u.IsAdmin() {
		if companyScope != "" && companyScope != u.CompanyID {
			return nil, nil
		}
		query = u.CompanyID
	}
	candidates, err := s.projects.ListActive(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar proyectos: %w", err)
	}
	return rules.FilterProjects(u, candidates, companyScope), nil
}

// VisibleControlled documentos (o formatos) de los proyectos visibles.
// Con projectID se limita a ese proyecto, previa autorización.
func (s *Service) VisibleControlled(ctx context.Context, u *entity.User, kind entity.Kind, projectID string) ([]*entity.Controlled, error) {
	var ids []string
	if projectID != "" {
		if _, err := s.AuthorizeProject(ctx, u, projectID); err != nil {
			return nil, err
		}
		ids = []string{projectID}
	} else {
		projects, err := s.VisibleProjects(ctx, u, "")
		if err != nil {
			return nil, err
		}
		ids = rules.ProjectIDs(projects)
	}
	if len(ids) == 0 {
		return []*entity.Controlled{}, nil
	}
	list, err := s.controlled.ListByProjects(ctx, kind, ids)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", kind, err)
	}
	return list, nil
}

// VisibleDocuments atajo de VisibleControlled para documentos.
func (s *Service) VisibleDocuments(ctx context.Context, u *entity.User, projectID string) ([]*entity.Controlled, error) {
	return s.VisibleControlled(ctx, u, entity.KindDocument, projectID)
}

// VisibleRecordFormats atajo de VisibleControlled para formatos de registro.
func (s *Service) VisibleRecordFormats(ctx context.Context, u *entity.User, projectID string) ([]*entity.Controlled, error) {
	return s.VisibleControlled(ctx, u, entity.KindRecord, projectID)
}

// VisibleEntries registros llenos de un formato visible.
func (s *Service) VisibleEntries(ctx context.Context, u *entity.User, formatID string) ([]*entity.RecordEntry, error) {
	if _, _, err := s.AuthorizeControlled(ctx, u, entity.KindRecord, formatID); err != nil {
		return nil, err
	}
	list, err := s.entries.ListByFormat(ctx, formatID)
	if err != nil {
		return nil, fmt.Errorf("listar registros: %w", err)
	}
	return list, nil
}

// AuthorizeProject devuelve el proyecto si el usuario lo alcanza por id. Los
// listados siguen ocultando los proyectos inactivos, también al admin.
func (s *Service) AuthorizeProject(ctx context.Context, u *entity.User, projectID string) (*entity.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("obtener proyecto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !rules.CanReachProject(u, p) {
		return nil, domain.ErrPermissionDenied
	}
	return p, nil
}

// AuthorizeControlled devuelve el elemento y su proyecto si el usuario los ve.
func (s *Service) AuthorizeControlled(ctx context.Context, u *entity.User, kind entity.Kind, id string) (*entity.Controlled, *entity.Project, error) {
	c, err := s.controlled.GetByID(ctx, kind, id)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener %s: %w", kind, err)
	}
	if c == nil {
		return nil, nil, domain.ErrNotFound
	}
	p, err := s.AuthorizeProject(ctx, u, c.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

// AuthorizeEntry devuelve el registro, su formato y el proyecto si el usuario los ve.
func (s *Service) AuthorizeEntry(ctx context.Context, u *entity.User, entryID string) (*entity.RecordEntry, *entity.Controlled, *entity.Project, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("obtener registro: %w", err)
	}
	if e == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	f, p, err := s.AuthorizeControlled(ctx, u, entity.KindRecord, e.FormatID)
	if err != nil {
		return nil, nil, nil, err
	}
	return e, f, p, nil
}

package expiration

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/expiration"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// Service rastreador de vencimientos. Solo lectura.
type Service struct {
	access     *access.Service
	controlled repository.ControlledRepository
	now        func() time.Time
}

// NewService construye el rastreador.
func NewService(acc *access.Service, controlled repository.ControlledRepository) *Service {
	return &Service{access: acc, controlled: controlled, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Expiring documentos y formatos visibles que vencen en los próximos days días.
func (s *Service) Expiring(ctx context.Context, u *entity.User, days int) ([]expiration.Item, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: días debe ser >= 0", domain.ErrValidation)
	}
	projects, err := s.access.VisibleProjects(ctx, u, "")
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []expiration.Item{}, nil
	}
	ids := rules.ProjectIDs(projects)
	docs, err := s.controlled.ListByProjects(ctx, entity.KindDocument, ids)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	formats, err := s.controlled.ListByProjects(ctx, entity.KindRecord, ids)
	if err != nil {
		return nil, fmt.Errorf("listar formatos: %w", err)
	}
	items := expiration.ExpiringWithin(s.now(), days, docs, formats, projects)
	if items == nil {
		items = []expiration.Item{}
	}
	return items, nil
}

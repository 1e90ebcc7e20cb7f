package roles

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/roles"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// Service administra elabora/revisa/aprueba de documentos y formatos.
type Service struct {
	access *access.Service
	roles  repository.RoleAssignmentRepository
	tx     ports.TxRunner
	log    *logger.Logger
}

// NewService construye el servicio.
func NewService(acc *access.Service, roles repository.RoleAssignmentRepository, tx ports.TxRunner, log *logger.Logger) *Service {
	return &Service{access: acc, roles: roles, tx: tx, log: log.Component("roles")}
}

// SetRoles reemplaza el conjunto completo de roles del elemento (borrar e insertar).
// Las filas incompletas se descartan; una etiqueta de rol desconocida aborta todo.
func (s *Service) SetRoles(ctx context.Context, actor *entity.User, kind entity.Kind, entityID string, rows []rules.Input) ([]*entity.RoleAssignment, error) {
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
		return nil, err
	}
	accepted, dropped, err := rules.Sanitize(kind, entityID, rows)
	if err != nil {
		return nil, err
	}
	for _, ra := range accepted {
		ra.ID = uuid.New().String()
	}
	err = s.tx.Run(ctx, func(r repository.TxRepos) error {
		parent, err := r.Controlled.GetForUpdate(ctx, kind, entityID)
		if err != nil {
			return fmt.Errorf("bloquear %s: %w", kind, err)
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		if err := r.Roles.DeleteByEntity(ctx, kind, entityID); err != nil {
			return fmt.Errorf("borrar roles: %w", err)
		}
		for _, ra := range accepted {
			if err := r.Roles.Create(ctx, ra); err != nil {
				return fmt.Errorf("crear rol: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	event := s.log.Info
	if dropped > 0 {
		event = s.log.Warn
	}
	event().Str("entity_id", entityID).Int("accepted", len(accepted)).Int("dropped", dropped).
		Str("user_id", actor.ID).Msg("roles reemplazados")
	return accepted, nil
}

// ListRoles roles actuales del elemento, ordenados por rol y posición.
func (s *Service) ListRoles(ctx context.Context, actor *entity.User, kind entity.Kind, entityID string) ([]*entity.RoleAssignment, error) {
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
		return nil, err
	}
	list, err := s.roles.ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("listar roles: %w", err)
	}
	return list, nil
}

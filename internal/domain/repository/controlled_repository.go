package repository

import (
	"context"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// ControlledRepository persiste documentos y formatos de registro. kind elige la tabla.
type ControlledRepository interface {
	Create(ctx context.Context, c *entity.Controlled) error
	GetByID(ctx context.Context, kind entity.Kind, id string) (*entity.Controlled, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
	GetForUpdate(ctx context.Context, kind entity.Kind, id string) (*entity.Controlled, error)
	Update(ctx context.Context, c *entity.Controlled) error
	Delete(ctx context.Context, kind entity.Kind, id string) error
	// ListByProjects filtra siempre por lista de proyectos, nunca por empresa.
	ListByProjects(ctx context.Context, kind entity.Kind, projectIDs []string) ([]*entity.Controlled, error)
}

// VersionRepository persiste las versiones de archivo de un elemento controlado.
type VersionRepository interface {
	Create(ctx context.Context, v *entity.Version) error
	GetByID(ctx context.Context, kind entity.Kind, id string) (*entity.Version, error)
	GetActive(ctx context.Context, kind entity.Kind, parentID string) (*entity.Version, error)
	ListByParent(ctx context.Context, kind entity.Kind, parentID string) ([]*entity.Version, error)
	DeactivateAll(ctx context.Context, kind entity.Kind, parentID string) error
	SetActive(ctx context.Context, kind entity.Kind, id string) error
	CountActive(ctx context.Context, kind entity.Kind, parentID string) (int, error)
	DeleteByParent(ctx context.Context, kind entity.Kind, parentID string) error
}

// RecordEntryRepository persiste registros llenos.
type RecordEntryRepository interface {
	Create(ctx context.Context, e *entity.RecordEntry) error
	GetByID(ctx context.Context, id string) (*entity.RecordEntry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.RecordEntry, error)
	Update(ctx context.Context, e *entity.RecordEntry) error
	ListByFormat(ctx context.Context, formatID string) ([]*entity.RecordEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteByFormat(ctx context.Context, formatID string) error
}

// RoleAssignmentRepository persiste elabora/revisa/aprueba por elemento.
type RoleAssignmentRepository interface {
	ListByEntity(ctx context.Context, kind entity.Kind, entityID string) ([]*entity.RoleAssignment, error)
	ListByEntities(ctx context.Context, kind entity.Kind, entityIDs []string) (map[string][]*entity.RoleAssignment, error)
	DeleteByEntity(ctx context.Context, kind entity.Kind, entityID string) error
	Create(ctx context.Context, ra *entity.RoleAssignment) error
}

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Controlled ControlledRepository
	Versions   VersionRepository
	Entries    RecordEntryRepository
	Roles      RoleAssignmentRepository
}

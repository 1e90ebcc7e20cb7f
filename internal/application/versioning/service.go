// Package versioning administra las versiones de archivo de documentos y
// formatos de registro. Toda operación deja exactamente una versión activa.
package versioning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	labels "github.com/jhoicas/sgsst-docs-api/internal/domain/versioning"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// AddVersionInput datos de una nueva versión. Stage es opcional (etapa del ciclo de vida).
type AddVersionInput struct {
	Label      string
	Stage      string
	ChangeNote string
	File       files.Upload
}

// Service gestor de versiones.
type Service struct {
	access   *access.Service
	versions repository.VersionRepository
	tx       ports.TxRunner
	storage  ports.ObjectStorage
	links    *files.Links
	policy   files.Policy
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el gestor de versiones.
func NewService(
	acc *access.Service,
	versions repository.VersionRepository,
	tx ports.TxRunner,
	storage ports.ObjectStorage,
	links *files.Links,
	policy files.Policy,
	log *logger.Logger,
) *Service {
	return &Service{
		access:   acc,
		versions: versions,
		tx:       tx,
		storage:  storage,
		links:    links,
		policy:   policy,
		log:      log.Component("versioning"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AddVersion sube el archivo y lo deja como versión activa del elemento.
func (s *Service) AddVersion(ctx context.Context, actor *entity.User, kind entity.Kind, entityID string, in AddVersionInput) (*entity.Version, *entity.Controlled, error) {
	// ── 1. Validaciones baratas y autorización ───────────────────────────────
	label, err := labels.NormalizeLabel(in.Label)
	if err != nil {
		return nil, nil, err
	}
	c, p, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID)
	if err != nil {
		return nil, nil, err
	}
	status, err := StageStatus(actor, in.Stage)
	if err != nil {
		return nil, nil, err
	}
	ext, err := s.policy.Validate(in.File)
	if err != nil {
		return nil, nil, err
	}
	existing, err := s.versions.ListByParent(ctx, kind, c.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listar versiones: %w", err)
	}
	if err := labels.CheckUnique(label, versionLabels(existing)); err != nil {
		return nil, nil, err
	}

	// ── 2. Subir el archivo ──────────────────────────────────────────────────
	now := s.now()
	v := &entity.Version{
		ID:         uuid.New().String(),
		Kind:       kind,
		ParentID:   c.ID,
		Label:      label,
		UploadedBy: actor.ID,
		UploadedAt: now,
		ChangeNote: in.ChangeNote,
	}
	bucket := files.BucketFor(kind)
	path, err := s.storage.Put(ctx, bucket, files.ObjectPath(p.CompanyID, p.ID, c.ID, v.ID, now, ext), in.File.Data, in.File.ContentType)
	if err != nil {
		return nil, nil, fmt.Errorf("subir archivo: %w", err)
	}
	v.File = files.Descriptor(in.File, path)

	// ── 3. Intercambio de versión activa en una sola transacción ─────────────
	var updated *entity.Controlled
	err = s.tx.Run(ctx, func(r repository.TxRepos) error {
		parent, err := lockParent(ctx, r, kind, c.ID)
		if err != nil {
			return err
		}
		current, err := r.Versions.ListByParent(ctx, kind, parent.ID)
		if err != nil {
			return fmt.Errorf("listar versiones: %w", err)
		}
		if err := labels.CheckUnique(label, versionLabels(current)); err != nil {
			return err
		}
		if err := r.Versions.DeactivateAll(ctx, kind, parent.ID); err != nil {
			return fmt.Errorf("desactivar versiones: %w", err)
		}
		v.IsActive = true
		if err := r.Versions.Create(ctx, v); err != nil {
			return fmt.Errorf("crear versión: %w", err)
		}
		if err := ensureSingleActive(ctx, r, kind, parent.ID); err != nil {
			return err
		}
		parent.Version = label
		parent.UpdatedAt = now
		if status != "" {
			applyStage(parent, status, actor, now)
		}
		if err := r.Controlled.Update(ctx, parent); err != nil {
			return fmt.Errorf("actualizar %s: %w", kind, err)
		}
		updated = parent
		return nil
	})
	if err != nil {
		v.IsActive = false
		if derr := s.storage.Delete(ctx, bucket, path); derr != nil {
			s.log.Error().Err(derr).Str("path", path).Msg("no se pudo borrar el archivo de una versión fallida")
		}
		return nil, nil, err
	}
	s.log.Info().Str("entity_id", c.ID).Str("kind", string(kind)).Str("label", label).Str("user_id", actor.ID).Msg("versión agregada")
	return v, updated, nil
}

// CreateWithFirstVersion persiste un elemento nuevo junto con su primera versión
// activa. p es el proyecto ya autorizado; sin etiqueta se usa la etiqueta inicial.
func (s *Service) CreateWithFirstVersion(ctx context.Context, actor *entity.User, c *entity.Controlled, p *entity.Project, in AddVersionInput) (*entity.Version, error) {
	label := labels.DefaultLabel
	if in.Label != "" {
		l, err := labels.NormalizeLabel(in.Label)
		if err != nil {
			return nil, err
		}
		label = l
	}
	status, err := StageStatus(actor, in.Stage)
	if err != nil {
		return nil, err
	}
	ext, err := s.policy.Validate(in.File)
	if err != nil {
		return nil, err
	}
	now := s.now()
	v := &entity.Version{
		ID:         uuid.New().String(),
		Kind:       c.Kind,
		ParentID:   c.ID,
		Label:      label,
		UploadedBy: actor.ID,
		UploadedAt: now,
		ChangeNote: in.ChangeNote,
		IsActive:   true,
	}
	bucket := files.BucketFor(c.Kind)
	path, err := s.storage.Put(ctx, bucket, files.ObjectPath(p.CompanyID, p.ID, c.ID, v.ID, now, ext), in.File.Data, in.File.ContentType)
	if err != nil {
		return nil, fmt.Errorf("subir archivo: %w", err)
	}
	v.File = files.Descriptor(in.File, path)
	c.Version = label
	if status != "" {
		applyStage(c, status, actor, now)
	}

	err = s.tx.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Controlled.Create(ctx, c); err != nil {
			return fmt.Errorf("crear %s: %w", c.Kind, err)
		}
		if err := r.Versions.Create(ctx, v); err != nil {
			return fmt.Errorf("crear versión: %w", err)
		}
		return ensureSingleActive(ctx, r, c.Kind, c.ID)
	})
	if err != nil {
		if derr := s.storage.Delete(ctx, bucket, path); derr != nil {
			s.log.Error().Err(derr).Str("path", path).Msg("no se pudo borrar el archivo de una creación fallida")
		}
		return nil, err
	}
	s.log.Info().Str("entity_id", c.ID).Str("kind", string(c.Kind)).Str("user_id", actor.ID).Msg("elemento creado con su primera versión")
	return v, nil
}

// ActivateVersion reactiva una versión histórica (rollback).
func (s *Service) ActivateVersion(ctx context.Context, actor *entity.User, kind entity.Kind, entityID, versionID string) (*entity.Version, *entity.Controlled, error) {
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
		return nil, nil, err
	}
	var (
		activated *entity.Version
		updated   *entity.Controlled
	)
	err := s.tx.Run(ctx, func(r repository.TxRepos) error {
		parent, err := lockParent(ctx, r, kind, entityID)
		if err != nil {
			return err
		}
		v, err := r.Versions.GetByID(ctx, kind, versionID)
		if err != nil {
			return fmt.Errorf("obtener versión: %w", err)
		}
		if v == nil || v.ParentID != parent.ID {
			return domain.ErrNotFound
		}
		if err := r.Versions.DeactivateAll(ctx, kind, parent.ID); err != nil {
			return fmt.Errorf("desactivar versiones: %w", err)
		}
		if err := r.Versions.SetActive(ctx, kind, v.ID); err != nil {
			return fmt.Errorf("activar versión: %w", err)
		}
		if err := ensureSingleActive(ctx, r, kind, parent.ID); err != nil {
			return err
		}
		v.IsActive = true
		parent.Version = v.Label
		parent.UpdatedAt = s.now()
		if err := r.Controlled.Update(ctx, parent); err != nil {
			return fmt.Errorf("actualizar %s: %w", kind, err)
		}
		activated, updated = v, parent
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().Str("entity_id", entityID).Str("version_id", versionID).Str("user_id", actor.ID).Msg("versión reactivada")
	return activated, updated, nil
}

// ListVersions historial de versiones, la más reciente primero.
func (s *Service) ListVersions(ctx context.Context, actor *entity.User, kind entity.Kind, entityID string) ([]*entity.Version, error) {
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
		return nil, err
	}
	list, err := s.versions.ListByParent(ctx, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("listar versiones: %w", err)
	}
	return list, nil
}

// ActiveVersion la versión marcada como activa (no la última subida).
func (s *Service) ActiveVersion(ctx context.Context, actor *entity.User, kind entity.Kind, entityID string) (*entity.Version, error) {
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
		return nil, err
	}
	v, err := s.versions.GetActive(ctx, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("obtener versión activa: %w", err)
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// DownloadURL URL firmada de una versión; versionID vacío = versión activa.
func (s *Service) DownloadURL(ctx context.Context, actor *entity.User, kind entity.Kind, entityID, versionID string) (string, *entity.Version, error) {
	var (
		v   *entity.Version
		err error
	)
	if versionID == "" {
		v, err = s.ActiveVersion(ctx, actor, kind, entityID)
		if err != nil {
			return "", nil, err
		}
	} else {
		if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, entityID); err != nil {
			return "", nil, err
		}
		v, err = s.versions.GetByID(ctx, kind, versionID)
		if err != nil {
			return "", nil, fmt.Errorf("obtener versión: %w", err)
		}
		if v == nil || v.ParentID != entityID {
			return "", nil, domain.ErrNotFound
		}
	}
	url, err := s.links.URL(ctx, files.BucketFor(kind), v.File.Path)
	if err != nil {
		return "", nil, err
	}
	return url, v, nil
}

// StageStatus traduce la etapa declarada; vacío = sin cambio de estado.
// Declarar Vigente equivale a aprobar y está reservado a administradores.
func StageStatus(actor *entity.User, stage string) (entity.Status, error) {
	if stage == "" {
		return "", nil
	}
	status, err := lifecycle.StageToStatus(stage)
	if err != nil {
		return "", err
	}
	if lifecycle.RequiresAdmin(status) && !actor.IsAdmin() {
		return "", fmt.Errorf("%w: solo un administrador puede declarar una versión vigente", domain.ErrPermissionDenied)
	}
	return status, nil
}

func applyStage(c *entity.Controlled, status entity.Status, actor *entity.User, now time.Time) {
	if lifecycle.RequiresAdmin(status) {
		lifecycle.Apply(c, status, lifecycle.Actor{ID: actor.ID, IsAdmin: actor.IsAdmin()}, now)
		return
	}
	c.Status = status
	c.ApprovedBy = ""
	c.ApprovedAt = nil
}

func lockParent(ctx context.Context, r repository.TxRepos, kind entity.Kind, id string) (*entity.Controlled, error) {
	parent, err := r.Controlled.GetForUpdate(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear %s: %w", kind, err)
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	return parent, nil
}

func ensureSingleActive(ctx context.Context, r repository.TxRepos, kind entity.Kind, parentID string) error {
	n, err := r.Versions.CountActive(ctx, kind, parentID)
	if err != nil {
		return fmt.Errorf("contar versiones activas: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%w: %d versiones activas", domain.ErrConsistencyViolation, n)
	}
	return nil
}

func versionLabels(list []*entity.Version) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.Label)
	}
	return out
}

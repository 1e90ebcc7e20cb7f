package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// ControlledUseCase alta, consulta, edición y borrado de documentos y formatos de registro.
type ControlledUseCase struct {
	access     *access.Service
	versioning *versioning.Service
	controlled repository.ControlledRepository
	categories repository.CategoryRepository
	tx         ports.TxRunner
	storage    ports.ObjectStorage
	links      *files.Links
	log        *logger.Logger
	now        func() time.Time
}

// NewControlledUseCase construye el caso de uso.
func NewControlledUseCase(
	acc *access.Service,
	vs *versioning.Service,
	controlled repository.ControlledRepository,
	categories repository.CategoryRepository,
	tx ports.TxRunner,
	storage ports.ObjectStorage,
	links *files.Links,
	log *logger.Logger,
) *ControlledUseCase {
	return &ControlledUseCase{
		access:     acc,
		versioning: vs,
		controlled: controlled,
		categories: categories,
		tx:         tx,
		storage:    storage,
		links:      links,
		log:        log.Component("controlled"),
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ControlledUseCase) WithClock(now func() time.Time) *ControlledUseCase {
	uc.now = now
	return uc
}

// Create crea el documento o formato junto con su primera versión.
// Sin fecha de vencimiento se usa la renovación de la categoría (si tiene).
func (uc *ControlledUseCase) Create(ctx context.Context, u *entity.User, kind entity.Kind, in dto.CreateControlledRequest, file files.Upload) (*dto.VersionMutationResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	p, err := uc.access.AuthorizeProject(ctx, u, in.ProjectID)
	if err != nil {
		return nil, err
	}
	cat, err := uc.category(ctx, kind, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	id := uuid.New().String()
	name, code := strings.TrimSpace(in.Name), strings.TrimSpace(in.Code)
	var c *entity.Controlled
	if kind == entity.KindRecord {
		c = entity.NewRecordFormat(id, p.ID, cat.ID, name, code, u.ID, now)
	} else {
		c = entity.NewDocument(id, p.ID, cat.ID, name, code, u.ID, now)
	}
	c.Notes = in.Notes
	c.ExpirationDate = in.ExpirationDate
	if c.ExpirationDate == nil && cat.RenewalMonths > 0 {
		y, m, d := now.Date()
		exp := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, cat.RenewalMonths, 0)
		c.ExpirationDate = &exp
	}

	v, err := uc.versioning.CreateWithFirstVersion(ctx, u, c, p, versioning.AddVersionInput{
		Label:      in.Label,
		Stage:      in.Stage,
		ChangeNote: in.ChangeNote,
		File:       file,
	})
	if err != nil {
		return nil, err
	}
	return &dto.VersionMutationResponse{
		Version: dto.FromVersion(v),
		Entity:  dto.FromControlled(c, lifecycle.EffectiveStatus(c, now)),
	}, nil
}

// Get devuelve el elemento si el usuario lo ve. El estado es el efectivo (vencido por fecha).
func (uc *ControlledUseCase) Get(ctx context.Context, u *entity.User, kind entity.Kind, id string) (*dto.ControlledResponse, error) {
	c, _, err := uc.access.AuthorizeControlled(ctx, u, kind, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromControlled(c, lifecycle.EffectiveStatus(c, uc.now()))
	return &out, nil
}

// List elementos visibles, opcionalmente de un proyecto.
func (uc *ControlledUseCase) List(ctx context.Context, u *entity.User, kind entity.Kind, projectID string) ([]dto.ControlledResponse, error) {
	list, err := uc.access.VisibleControlled(ctx, u, kind, projectID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.ControlledResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromControlled(c, lifecycle.EffectiveStatus(c, now)))
	}
	return out, nil
}

// Update edita metadatos. El estado y la versión solo cambian por sus propias operaciones.
func (uc *ControlledUseCase) Update(ctx context.Context, u *entity.User, kind entity.Kind, id string, in dto.UpdateControlledRequest) (*dto.ControlledResponse, error) {
	if _, _, err := uc.access.AuthorizeControlled(ctx, u, kind, id); err != nil {
		return nil, err
	}
	var cat *entity.DocumentCategory
	if in.CategoryID != nil {
		c, err := uc.category(ctx, kind, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		cat = c
	}
	exp, err := parseOptionalDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	var updated *entity.Controlled
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Controlled.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
			}
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Code != nil {
			c.Code = strings.TrimSpace(*in.Code)
		}
		if in.Notes != nil {
			c.Notes = *in.Notes
		}
		if cat != nil {
			c.CategoryID = cat.ID
		}
		if in.ExpirationDate != nil {
			c.ExpirationDate = exp
		}
		c.UpdatedAt = uc.now()
		updated = c
		return r.Controlled.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromControlled(updated, lifecycle.EffectiveStatus(updated, uc.now()))
	return &out, nil
}

// Delete borra el elemento con sus versiones, roles y registros llenos (solo admin).
// Los archivos se borran después de confirmar la transacción.
func (uc *ControlledUseCase) Delete(ctx context.Context, u *entity.User, kind entity.Kind, id string) error {
	if !u.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if _, _, err := uc.access.AuthorizeControlled(ctx, u, kind, id); err != nil {
		return err
	}
	type object struct {
		bucket ports.Bucket
		path   string
	}
	var objects []object
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Controlled.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		versions, err := r.Versions.ListByParent(ctx, kind, id)
		if err != nil {
			return err
		}
		for _, v := range versions {
			objects = append(objects, object{files.BucketFor(kind), v.File.Path})
		}
		if kind == entity.KindRecord {
			entries, err := r.Entries.ListByFormat(ctx, id)
			if err != nil {
				return err
			}
			for _, e := range entries {
				objects = append(objects, object{ports.BucketRecordEntries, e.File.Path})
			}
			if err := r.Entries.DeleteByFormat(ctx, id); err != nil {
				return err
			}
		}
		if err := r.Roles.DeleteByEntity(ctx, kind, id); err != nil {
			return err
		}
		if err := r.Versions.DeleteByParent(ctx, kind, id); err != nil {
			return err
		}
		return r.Controlled.Delete(ctx, kind, id)
	})
	if err != nil {
		return err
	}
	for _, o := range objects {
		if err := uc.storage.Delete(ctx, o.bucket, o.path); err != nil {
			uc.log.Warn().Err(err).Str("path", o.path).Msg("archivo huérfano tras borrado")
		}
		uc.links.Forget(ctx, o.bucket, o.path)
	}
	uc.log.Info().Str("entity_id", id).Str("kind", string(kind)).Int("files", len(objects)).Str("user_id", u.ID).Msg("elemento eliminado")
	return nil
}

func (uc *ControlledUseCase) category(ctx context.Context, kind entity.Kind, id string) (*entity.DocumentCategory, error) {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil || !cat.Active {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrNotFound, id)
	}
	if cat.Type != kind {
		return nil, fmt.Errorf("%w: la categoría es de tipo %s", domain.ErrValidation, cat.Type)
	}
	return cat, nil
}

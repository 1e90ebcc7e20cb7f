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
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// EntryUseCase registros llenos de un formato.
type EntryUseCase struct {
	access  *access.Service
	entries repository.RecordEntryRepository
	storage ports.ObjectStorage
	links   *files.Links
	policy  files.Policy
	log     *logger.Logger
	now     func() time.Time
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(
	acc *access.Service,
	entries repository.RecordEntryRepository,
	storage ports.ObjectStorage,
	links *files.Links,
	policy files.Policy,
	log *logger.Logger,
) *EntryUseCase {
	return &EntryUseCase{
		access:  acc,
		entries: entries,
		storage: storage,
		links:   links,
		policy:  policy,
		log:     log.Component("entries"),
		now:     time.Now,
	}
}

// Create sube un registro lleno (queda pending).
func (uc *EntryUseCase) Create(ctx context.Context, u *entity.User, formatID string, in dto.CreateEntryRequest, file files.Upload) (*dto.EntryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	format, p, err := uc.access.AuthorizeControlled(ctx, u, entity.KindRecord, formatID)
	if err != nil {
		return nil, err
	}
	ext, err := uc.policy.Validate(file)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.RecordEntry{
		ID:              uuid.New().String(),
		FormatID:        format.ID,
		Name:            strings.TrimSpace(in.Name),
		RealizationDate: in.RealizationDate,
		UploadedBy:      u.ID,
		Status:          entity.EntryPending,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if e.RealizationDate.IsZero() {
		e.RealizationDate = now
	}
	path, err := uc.storage.Put(ctx, ports.BucketRecordEntries, files.ObjectPath(p.CompanyID, p.ID, format.ID, e.ID, now, ext), file.Data, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("subir registro: %w", err)
	}
	e.File = files.Descriptor(file, path)
	if err := uc.entries.Create(ctx, e); err != nil {
		if derr := uc.storage.Delete(ctx, ports.BucketRecordEntries, path); derr != nil {
			uc.log.Error().Err(derr).Str("path", path).Msg("no se pudo borrar el archivo de un registro fallido")
		}
		return nil, err
	}
	out := dto.FromEntry(e)
	return &out, nil
}

// List registros de un formato visible.
func (uc *EntryUseCase) List(ctx context.Context, u *entity.User, formatID string) ([]dto.EntryResponse, error) {
	list, err := uc.access.VisibleEntries(ctx, u, formatID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.FromEntry(e))
	}
	return out, nil
}

// Get un registro visible.
func (uc *EntryUseCase) Get(ctx context.Context, u *entity.User, id string) (*dto.EntryResponse, error) {
	e, _, _, err := uc.access.AuthorizeEntry(ctx, u, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromEntry(e)
	return &out, nil
}

// DownloadURL URL firmada del archivo del registro.
func (uc *EntryUseCase) DownloadURL(ctx context.Context, u *entity.User, id string) (*dto.DownloadResponse, error) {
	e, _, _, err := uc.access.AuthorizeEntry(ctx, u, id)
	if err != nil {
		return nil, err
	}
	url, err := uc.links.URL(ctx, ports.BucketRecordEntries, e.File.Path)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadResponse{URL: url, FileName: e.File.Name}, nil
}

// Delete borra el registro y su archivo (solo admin).
func (uc *EntryUseCase) Delete(ctx context.Context, u *entity.User, id string) error {
	if !u.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	e, _, _, err := uc.access.AuthorizeEntry(ctx, u, id)
	if err != nil {
		return err
	}
	if err := uc.entries.Delete(ctx, e.ID); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, ports.BucketRecordEntries, e.File.Path); err != nil {
		uc.log.Warn().Err(err).Str("path", e.File.Path).Msg("archivo huérfano tras borrado")
	}
	uc.links.Forget(ctx, ports.BucketRecordEntries, e.File.Path)
	return nil
}

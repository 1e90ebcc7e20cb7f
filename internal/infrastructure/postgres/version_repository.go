package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.VersionRepository = (*VersionRepo)(nil)

// VersionRepo versiones de archivo. La base garantiza una sola activa por
// elemento (índice único parcial) y etiquetas únicas sin distinguir mayúsculas.
type VersionRepo struct {
	db Querier
}

// NewVersionRepository construye el adaptador.
func NewVersionRepository(db Querier) *VersionRepo {
	return &VersionRepo{db: db}
}

const versionColumns = `id, parent_id, label, file_name, file_path, file_size, content_type,
	uploaded_by, uploaded_at, change_note, is_active`

func scanVersion(row pgx.Row, kind entity.Kind) (*entity.Version, error) {
	v := entity.Version{Kind: kind}
	err := row.Scan(&v.ID, &v.ParentID, &v.Label, &v.File.Name, &v.File.Path, &v.File.Size, &v.File.ContentType,
		&v.UploadedBy, &v.UploadedAt, &v.ChangeNote, &v.IsActive)
	return &v, err
}

// mapVersionConflict traduce la violación de índice único al error de dominio.
func mapVersionConflict(err error) error {
	name := violatedConstraint(err)
	switch {
	case strings.HasSuffix(name, "_active_key"):
		return fmt.Errorf("%w: más de una versión activa", domain.ErrConsistencyViolation)
	case strings.HasSuffix(name, "_label_key"):
		return domain.ErrDuplicateVersionLabel
	}
	return nil
}

func (r *VersionRepo) Create(ctx context.Context, v *entity.Version) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, tablesFor(v.Kind).versions, versionColumns)
	_, err := r.db.Exec(ctx, query,
		v.ID, v.ParentID, v.Label, v.File.Name, v.File.Path, v.File.Size, v.File.ContentType,
		v.UploadedBy, v.UploadedAt, v.ChangeNote, v.IsActive,
	)
	if err != nil {
		if mapped := mapVersionConflict(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func (r *VersionRepo) GetByID(ctx context.Context, kind entity.Kind, id string) (*entity.Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, versionColumns, tablesFor(kind).versions)
	return r.getOne(ctx, kind, query, id)
}

func (r *VersionRepo) GetActive(ctx context.Context, kind entity.Kind, parentID string) (*entity.Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 AND is_active`, versionColumns, tablesFor(kind).versions)
	return r.getOne(ctx, kind, query, parentID)
}

func (r *VersionRepo) getOne(ctx context.Context, kind entity.Kind, query, arg string) (*entity.Version, error) {
	v, err := scanVersion(r.db.QueryRow(ctx, query, arg), kind)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

// ListByParent historial, la más reciente primero.
func (r *VersionRepo) ListByParent(ctx context.Context, kind entity.Kind, parentID string) ([]*entity.Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 ORDER BY uploaded_at DESC, label DESC`,
		versionColumns, tablesFor(kind).versions)
	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	list := []*entity.Version{}
	for rows.Next() {
		v, err := scanVersion(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *VersionRepo) DeactivateAll(ctx context.Context, kind entity.Kind, parentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET is_active = FALSE WHERE parent_id = $1 AND is_active`, tablesFor(kind).versions)
	if _, err := r.db.Exec(ctx, query, parentID); err != nil {
		return fmt.Errorf("deactivate versions: %w", err)
	}
	return nil
}

func (r *VersionRepo) SetActive(ctx context.Context, kind entity.Kind, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET is_active = TRUE WHERE id = $1`, tablesFor(kind).versions)
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if mapped := mapVersionConflict(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("activate version: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VersionRepo) CountActive(ctx context.Context, kind entity.Kind, parentID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE parent_id = $1 AND is_active`, tablesFor(kind).versions)
	var n int
	if err := r.db.QueryRow(ctx, query, parentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active versions: %w", err)
	}
	return n, nil
}

func (r *VersionRepo) DeleteByParent(ctx context.Context, kind entity.Kind, parentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE parent_id = $1`, tablesFor(kind).versions)
	if _, err := r.db.Exec(ctx, query, parentID); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	return nil
}

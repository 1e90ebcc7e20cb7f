package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.ControlledRepository = (*ControlledRepo)(nil)

// tables nombres físicos de cada variante. Documentos y formatos tienen el mismo
// esquema en tablas separadas.
type tables struct {
	entity   string
	versions string
	roles    string
}

func tablesFor(kind entity.Kind) tables {
	if kind == entity.KindRecord {
		return tables{entity: "record_formats", versions: "record_format_versions", roles: "record_format_roles"}
	}
	return tables{entity: "documents", versions: "document_versions", roles: "document_roles"}
}

// ControlledRepo documentos SST y formatos de registro.
type ControlledRepo struct {
	db Querier
}

// NewControlledRepository construye el adaptador.
func NewControlledRepository(db Querier) *ControlledRepo {
	return &ControlledRepo{db: db}
}

const controlledColumns = `id, project_id, category_id, name, code, version, status, expiration_date,
	notes, created_by, approved_by, approved_at, created_at, updated_at`

func scanControlled(row pgx.Row, kind entity.Kind) (*entity.Controlled, error) {
	c := entity.Controlled{Kind: kind}
	err := row.Scan(&c.ID, &c.ProjectID, &c.CategoryID, &c.Name, &c.Code, &c.Version, &c.Status,
		&c.ExpirationDate, &c.Notes, &c.CreatedBy, &c.ApprovedBy, &c.ApprovedAt, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *ControlledRepo) Create(ctx context.Context, c *entity.Controlled) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, tablesFor(c.Kind).entity, controlledColumns)
	_, err := r.db.Exec(ctx, query,
		c.ID, c.ProjectID, c.CategoryID, c.Name, c.Code, c.Version, string(c.Status), c.ExpirationDate,
		c.Notes, c.CreatedBy, c.ApprovedBy, c.ApprovedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.Kind, err)
	}
	return nil
}

func (r *ControlledRepo) GetByID(ctx context.Context, kind entity.Kind, id string) (*entity.Controlled, error) {
	return r.get(ctx, kind, id, "")
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ControlledRepo) GetForUpdate(ctx context.Context, kind entity.Kind, id string) (*entity.Controlled, error) {
	return r.get(ctx, kind, id, " FOR UPDATE")
}

func (r *ControlledRepo) get(ctx context.Context, kind entity.Kind, id, suffix string) (*entity.Controlled, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1%s`, controlledColumns, tablesFor(kind).entity, suffix)
	c, err := scanControlled(r.db.QueryRow(ctx, query, id), kind)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return c, nil
}

// Update no modifica project_id ni created_by.
func (r *ControlledRepo) Update(ctx context.Context, c *entity.Controlled) error {
	query := fmt.Sprintf(`
		UPDATE %s
		   SET category_id = $2, name = $3, code = $4, version = $5, status = $6,
		       expiration_date = $7, notes = $8, approved_by = $9, approved_at = $10, updated_at = $11
		 WHERE id = $1`, tablesFor(c.Kind).entity)
	cmd, err := r.db.Exec(ctx, query,
		c.ID, c.CategoryID, c.Name, c.Code, c.Version, string(c.Status),
		c.ExpirationDate, c.Notes, c.ApprovedBy, c.ApprovedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.Kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ControlledRepo) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if _, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tablesFor(kind).entity), id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

// ListByProjects filtra por la lista de proyectos visibles.
func (r *ControlledRepo) ListByProjects(ctx context.Context, kind entity.Kind, projectIDs []string) ([]*entity.Controlled, error) {
	if len(projectIDs) == 0 {
		return []*entity.Controlled{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		 WHERE project_id = ANY($1::uuid[])
		 ORDER BY code, name`, controlledColumns, tablesFor(kind).entity)
	rows, err := r.db.Query(ctx, query, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	list := []*entity.Controlled{}
	for rows.Next() {
		c, err := scanControlled(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

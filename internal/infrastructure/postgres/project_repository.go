package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos (sedes/obras). Los contactos viven en una columna JSONB.
type ProjectRepo struct {
	db Querier
}

// NewProjectRepository construye el adaptador de persistencia para proyectos.
func NewProjectRepository(db Querier) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, company_id, site, description, start_date, end_date, active, status, contacts, created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Site, &p.Description, &p.StartDate, &p.EndDate,
		&p.Active, &p.Status, &p.Contacts, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.Contacts == nil {
		p.Contacts = []entity.Contact{}
	}
	return &p, nil
}

func contactsOrEmpty(c []entity.Contact) []entity.Contact {
	if c == nil {
		return []entity.Contact{}
	}
	return c
}

// Create persiste un proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.CompanyID, p.Site, p.Description, p.StartDate, p.EndDate,
		p.Active, p.Status, contactsOrEmpty(p.Contacts), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Update actualiza los datos del proyecto. company_id no se toca: un proyecto
// no cambia de empresa.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `
		UPDATE projects
		   SET site = $2, description = $3, start_date = $4, end_date = $5,
		       active = $6, status = $7, contacts = $8, updated_at = $9
		 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		p.ID, p.Site, p.Description, p.StartDate, p.EndDate,
		p.Active, p.Status, contactsOrEmpty(p.Contacts), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive proyectos activos; companyID vacío = todas las empresas.
func (r *ProjectRepo) ListActive(ctx context.Context, companyID string) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + ` FROM projects
		 WHERE active AND ($1 = '' OR company_id::text = $1)
		 ORDER BY site`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

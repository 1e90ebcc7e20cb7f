package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías normativas (compartidas por todas las empresas).
type CategoryRepo struct {
	db Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(db Querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = `id, name, normative_reference, type, required, renewal_months, active, created_at`

func scanCategory(row pgx.Row) (*entity.DocumentCategory, error) {
	var c entity.DocumentCategory
	err := row.Scan(&c.ID, &c.Name, &c.NormativeReference, &c.Type, &c.Required, &c.RenewalMonths, &c.Active, &c.CreatedAt)
	return &c, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.DocumentCategory) error {
	query := `INSERT INTO document_categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.NormativeReference, string(c.Type), c.Required, c.RenewalMonths, c.Active, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.DocumentCategory, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM document_categories WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// List categorías activas; kind vacío = todos los tipos.
func (r *CategoryRepo) List(ctx context.Context, kind entity.Kind) ([]*entity.DocumentCategory, error) {
	query := `
		SELECT ` + categoryColumns + ` FROM document_categories
		 WHERE active AND ($1 = '' OR type = $1)
		 ORDER BY name`
	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.DocumentCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.ComplianceRepository = (*ComplianceRepo)(nil)

// ComplianceRepo agregados del tablero de cumplimiento.
type ComplianceRepo struct {
	db Querier
}

// NewComplianceRepository construye el adaptador.
func NewComplianceRepository(db Querier) *ComplianceRepo {
	return &ComplianceRepo{db: db}
}

// Una categoría obligatoria queda cubierta en un proyecto si tiene al menos un
// documento o formato aprobado cuya fecha de vencimiento no pasó.
const complianceQuery = `
	WITH req AS (
		SELECT id, name FROM document_categories WHERE active AND required
	), covered AS (
		SELECT project_id, category_id FROM documents
		 WHERE status = 'approved' AND (expiration_date IS NULL OR expiration_date >= $2::date)
		   AND project_id = ANY($1::uuid[])
		UNION
		SELECT project_id, category_id FROM record_formats
		 WHERE status = 'approved' AND (expiration_date IS NULL OR expiration_date >= $2::date)
		   AND project_id = ANY($1::uuid[])
	)
	SELECT p.id, p.site,
	       COUNT(r.id)::int AS required,
	       COUNT(c.category_id)::int AS covered,
	       CASE WHEN COUNT(r.id) = 0 THEN 100::numeric
	            ELSE ROUND(COUNT(c.category_id) * 100.0 / COUNT(r.id), 2) END AS percentage,
	       COALESCE(ARRAY_AGG(r.name ORDER BY r.name)
	                FILTER (WHERE r.id IS NOT NULL AND c.category_id IS NULL), '{}') AS missing
	  FROM projects p
	  LEFT JOIN req r ON TRUE
	  LEFT JOIN covered c ON c.project_id = p.id AND c.category_id = r.id
	 WHERE p.id = ANY($1::uuid[])
	 GROUP BY p.id, p.site
	 ORDER BY p.site`

func (r *ComplianceRepo) ProjectCompliance(ctx context.Context, projectIDs []string, today time.Time) ([]*entity.ProjectCompliance, error) {
	if len(projectIDs) == 0 {
		return []*entity.ProjectCompliance{}, nil
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, complianceQuery, projectIDs, day)
	if err != nil {
		return nil, fmt.Errorf("compliance query: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProjectCompliance
	for rows.Next() {
		var pc entity.ProjectCompliance
		if err := rows.Scan(&pc.ProjectID, &pc.ProjectSite, &pc.RequiredCategories, &pc.CoveredCategories,
			&pc.Percentage, &pc.MissingCategories); err != nil {
			return nil, fmt.Errorf("scan compliance: %w", err)
		}
		list = append(list, &pc)
	}
	return list, rows.Err()
}

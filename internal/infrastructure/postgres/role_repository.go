package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.RoleAssignmentRepository = (*RoleRepo)(nil)

// RoleRepo elabora/revisa/aprueba por documento o formato.
type RoleRepo struct {
	db Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(db Querier) *RoleRepo {
	return &RoleRepo{db: db}
}

const roleColumns = `id, entity_id, user_id, first_name, last_name, email, role, position`

const roleOrder = `CASE role WHEN 'elaborator' THEN 0 WHEN 'reviewer' THEN 1 ELSE 2 END, position`

func scanRole(row pgx.Row, kind entity.Kind) (*entity.RoleAssignment, error) {
	ra := entity.RoleAssignment{Kind: kind}
	err := row.Scan(&ra.ID, &ra.EntityID, &ra.UserID, &ra.FirstName, &ra.LastName, &ra.Email, &ra.Role, &ra.Position)
	return &ra, err
}

func (r *RoleRepo) ListByEntity(ctx context.Context, kind entity.Kind, entityID string) ([]*entity.RoleAssignment, error) {
	byEntity, err := r.ListByEntities(ctx, kind, []string{entityID})
	if err != nil {
		return nil, err
	}
	list := byEntity[entityID]
	if list == nil {
		list = []*entity.RoleAssignment{}
	}
	return list, nil
}

// ListByEntities roles de varios elementos en una sola consulta, agrupados por elemento.
func (r *RoleRepo) ListByEntities(ctx context.Context, kind entity.Kind, entityIDs []string) (map[string][]*entity.RoleAssignment, error) {
	out := make(map[string][]*entity.RoleAssignment, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE entity_id = ANY($1::uuid[]) ORDER BY entity_id, %s`,
		roleColumns, tablesFor(kind).roles, roleOrder)
	rows, err := r.db.Query(ctx, query, entityIDs)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ra, err := scanRole(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out[ra.EntityID] = append(out[ra.EntityID], ra)
	}
	return out, rows.Err()
}

func (r *RoleRepo) DeleteByEntity(ctx context.Context, kind entity.Kind, entityID string) error {
	if _, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE entity_id = $1`, tablesFor(kind).roles), entityID); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	return nil
}

func (r *RoleRepo) Create(ctx context.Context, ra *entity.RoleAssignment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, tablesFor(ra.Kind).roles, roleColumns)
	_, err := r.db.Exec(ctx, query,
		ra.ID, ra.EntityID, ra.UserID, ra.FirstName, ra.LastName, ra.Email, string(ra.Role), ra.Position,
	)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

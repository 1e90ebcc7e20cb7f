package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var (
	_ repository.ControlledRepository     = (*ControlledRepo)(nil)
	_ repository.VersionRepository        = (*VersionRepo)(nil)
	_ repository.RecordEntryRepository    = (*EntryRepo)(nil)
	_ repository.RoleAssignmentRepository = (*RoleRepo)(nil)
)

// ControlledRepo documentos y formatos en memoria.
type ControlledRepo struct{ v view }

// NewControlledRepository construye el repositorio.
func NewControlledRepository(s *Store) *ControlledRepo { return &ControlledRepo{v: view{store: s}} }

func (r *ControlledRepo) Create(_ context.Context, c *entity.Controlled) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.controlled[c.Kind][c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.controlled[c.Kind][c.ID] = cloneControlled(*c)
		return nil
	})
}

func (r *ControlledRepo) GetByID(_ context.Context, kind entity.Kind, id string) (*entity.Controlled, error) {
	var out *entity.Controlled
	r.v.read(func(st *state) {
		if c, ok := st.controlled[kind][id]; ok {
			c = cloneControlled(c)
			out = &c
		}
	})
	return out, nil
}

// GetForUpdate dentro de TxRunner.Run el lock del almacén ya serializa la operación.
func (r *ControlledRepo) GetForUpdate(ctx context.Context, kind entity.Kind, id string) (*entity.Controlled, error) {
	return r.GetByID(ctx, kind, id)
}

func (r *ControlledRepo) Update(_ context.Context, c *entity.Controlled) error {
	return r.v.write(func(st *state) error {
		old, ok := st.controlled[c.Kind][c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := cloneControlled(*c)
		next.ProjectID = old.ProjectID
		st.controlled[c.Kind][c.ID] = next
		return nil
	})
}

func (r *ControlledRepo) Delete(_ context.Context, kind entity.Kind, id string) error {
	return r.v.write(func(st *state) error {
		delete(st.controlled[kind], id)
		return nil
	})
}

func (r *ControlledRepo) ListByProjects(_ context.Context, kind entity.Kind, projectIDs []string) ([]*entity.Controlled, error) {
	want := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		want[id] = true
	}
	var out []*entity.Controlled
	r.v.read(func(st *state) {
		for _, c := range st.controlled[kind] {
			if !want[c.ProjectID] {
				continue
			}
			c = cloneControlled(c)
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// VersionRepo versiones en memoria. Replica las restricciones de la base:
// etiqueta única por elemento y a lo sumo una versión activa.
type VersionRepo struct{ v view }

// NewVersionRepository construye el repositorio.
func NewVersionRepository(s *Store) *VersionRepo { return &VersionRepo{v: view{store: s}} }

func (r *VersionRepo) Create(_ context.Context, v *entity.Version) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.versions[v.Kind] {
			if other.ParentID != v.ParentID {
				continue
			}
			if strings.EqualFold(other.Label, v.Label) {
				return domain.ErrDuplicateVersionLabel
			}
			if v.IsActive && other.IsActive {
				return domain.ErrConsistencyViolation
			}
		}
		st.versions[v.Kind][v.ID] = *v
		return nil
	})
}

func (r *VersionRepo) GetByID(_ context.Context, kind entity.Kind, id string) (*entity.Version, error) {
	var out *entity.Version
	r.v.read(func(st *state) {
		if v, ok := st.versions[kind][id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *VersionRepo) GetActive(_ context.Context, kind entity.Kind, parentID string) (*entity.Version, error) {
	var out *entity.Version
	r.v.read(func(st *state) {
		for _, v := range st.versions[kind] {
			if v.ParentID == parentID && v.IsActive {
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *VersionRepo) ListByParent(_ context.Context, kind entity.Kind, parentID string) ([]*entity.Version, error) {
	var out []*entity.Version
	r.v.read(func(st *state) {
		for _, v := range st.versions[kind] {
			if v.ParentID == parentID {
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *VersionRepo) DeactivateAll(_ context.Context, kind entity.Kind, parentID string) error {
	return r.v.write(func(st *state) error {
		for id, v := range st.versions[kind] {
			if v.ParentID == parentID && v.IsActive {
				v.IsActive = false
				st.versions[kind][id] = v
			}
		}
		return nil
	})
}

func (r *VersionRepo) SetActive(_ context.Context, kind entity.Kind, id string) error {
	return r.v.write(func(st *state) error {
		v, ok := st.versions[kind][id]
		if !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.versions[kind] {
			if other.ParentID == v.ParentID && other.IsActive && other.ID != id {
				return domain.ErrConsistencyViolation
			}
		}
		v.IsActive = true
		st.versions[kind][id] = v
		return nil
	})
}

func (r *VersionRepo) CountActive(_ context.Context, kind entity.Kind, parentID string) (int, error) {
	n := 0
	r.v.read(func(st *state) {
		for _, v := range st.versions[kind] {
			if v.ParentID == parentID && v.IsActive {
				n++
			}
		}
	})
	return n, nil
}

func (r *VersionRepo) DeleteByParent(_ context.Context, kind entity.Kind, parentID string) error {
	return r.v.write(func(st *state) error {
		for id, v := range st.versions[kind] {
			if v.ParentID == parentID {
				delete(st.versions[kind], id)
			}
		}
		return nil
	})
}

// EntryRepo registros llenos en memoria.
type EntryRepo struct{ v view }

// NewEntryRepository construye el repositorio.
func NewEntryRepository(s *Store) *EntryRepo { return &EntryRepo{v: view{store: s}} }

func (r *EntryRepo) Create(_ context.Context, e *entity.RecordEntry) error {
	return r.v.write(func(st *state) error {
		st.entries[e.ID] = cloneEntry(*e)
		return nil
	})
}

func (r *EntryRepo) GetByID(_ context.Context, id string) (*entity.RecordEntry, error) {
	var out *entity.RecordEntry
	r.v.read(func(st *state) {
		if e, ok := st.entries[id]; ok {
			e = cloneEntry(e)
			out = &e
		}
	})
	return out, nil
}

func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.RecordEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *EntryRepo) Update(_ context.Context, e *entity.RecordEntry) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.entries[e.ID]; !ok {
			return domain.ErrNotFound
		}
		st.entries[e.ID] = cloneEntry(*e)
		return nil
	})
}

func (r *EntryRepo) ListByFormat(_ context.Context, formatID string) ([]*entity.RecordEntry, error) {
	var out []*entity.RecordEntry
	r.v.read(func(st *state) {
		for _, e := range st.entries {
			if e.FormatID == formatID {
				e = cloneEntry(e)
				out = append(out, &e)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RealizationDate.After(out[j].RealizationDate) })
	return out, nil
}

func (r *EntryRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		delete(st.entries, id)
		return nil
	})
}

func (r *EntryRepo) DeleteByFormat(_ context.Context, formatID string) error {
	return r.v.write(func(st *state) error {
		for id, e := range st.entries {
			if e.FormatID == formatID {
				delete(st.entries, id)
			}
		}
		return nil
	})
}

// RoleRepo asignaciones de rol en memoria.
type RoleRepo struct{ v view }

// NewRoleRepository construye el repositorio.
func NewRoleRepository(s *Store) *RoleRepo { return &RoleRepo{v: view{store: s}} }

func (r *RoleRepo) ListByEntity(_ context.Context, kind entity.Kind, entityID string) ([]*entity.RoleAssignment, error) {
	var out []*entity.RoleAssignment
	r.v.read(func(st *state) {
		for _, ra := range st.roles[kind] {
			if ra.EntityID == entityID {
				out = append(out, &ra)
			}
		}
	})
	sortRoles(out)
	return out, nil
}

func (r *RoleRepo) ListByEntities(_ context.Context, kind entity.Kind, entityIDs []string) (map[string][]*entity.RoleAssignment, error) {
	want := make(map[string]bool, len(entityIDs))
	for _, id := range entityIDs {
		want[id] = true
	}
	out := make(map[string][]*entity.RoleAssignment)
	r.v.read(func(st *state) {
		for _, ra := range st.roles[kind] {
			if want[ra.EntityID] {
				out[ra.EntityID] = append(out[ra.EntityID], &ra)
			}
		}
	})
	for _, list := range out {
		sortRoles(list)
	}
	return out, nil
}

func (r *RoleRepo) DeleteByEntity(_ context.Context, kind entity.Kind, entityID string) error {
	return r.v.write(func(st *state) error {
		for id, ra := range st.roles[kind] {
			if ra.EntityID == entityID {
				delete(st.roles[kind], id)
			}
		}
		return nil
	})
}

func (r *RoleRepo) Create(_ context.Context, ra *entity.RoleAssignment) error {
	return r.v.write(func(st *state) error {
		st.roles[ra.Kind][ra.ID] = *ra
		return nil
	})
}

var roleOrder = map[entity.RoleTag]int{
	entity.RoleElaborator: 0,
	entity.RoleReviewer:   1,
	entity.RoleApprover:   2,
}

func sortRoles(list []*entity.RoleAssignment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Role != list[j].Role {
			return roleOrder[list[i].Role] < roleOrder[list[j].Role]
		}
		return list[i].Position < list[j].Position
	})
}

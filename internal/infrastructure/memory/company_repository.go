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
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.ProjectRepository  = (*ProjectRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ v view }

// NewCompanyRepository construye el repositorio.
func NewCompanyRepository(s *Store) *CompanyRepo { return &CompanyRepo{v: view{store: s}} }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.companies {
			if other.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	r.v.read(func(st *state) {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CompanyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	var out *entity.Company
	r.v.read(func(st *state) {
		for _, c := range st.companies {
			if c.TaxID == taxID {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var all []*entity.Company
	r.v.read(func(st *state) {
		for _, c := range st.companies {
			all = append(all, &c)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

// ProjectRepo proyectos en memoria.
type ProjectRepo struct{ v view }

// NewProjectRepository construye el repositorio.
func NewProjectRepository(s *Store) *ProjectRepo { return &ProjectRepo{v: view{store: s}} }

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	return r.v.write(func(st *state) error {
		st.projects[p.ID] = cloneProject(*p)
		return nil
	})
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	r.v.read(func(st *state) {
		if p, ok := st.projects[id]; ok {
			p = cloneProject(p)
			out = &p
		}
	})
	return out, nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	return r.v.write(func(st *state) error {
		old, ok := st.projects[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := cloneProject(*p)
		next.CompanyID = old.CompanyID
		st.projects[p.ID] = next
		return nil
	})
}

func (r *ProjectRepo) ListActive(_ context.Context, companyID string) ([]*entity.Project, error) {
	var out []*entity.Project
	r.v.read(func(st *state) {
		for _, p := range st.projects {
			if !p.Active || (companyID != "" && p.CompanyID != companyID) {
				continue
			}
			p = cloneProject(p)
			out = append(out, &p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out, nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ v view }

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(s *Store) *CategoryRepo { return &CategoryRepo{v: view{store: s}} }

func (r *CategoryRepo) Create(_ context.Context, c *entity.DocumentCategory) error {
	return r.v.write(func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.DocumentCategory, error) {
	var out *entity.DocumentCategory
	r.v.read(func(st *state) {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CategoryRepo) List(_ context.Context, kind entity.Kind) ([]*entity.DocumentCategory, error) {
	var out []*entity.DocumentCategory
	r.v.read(func(st *state) {
		for _, c := range st.categories {
			if !c.Active || (kind != "" && c.Type != kind) {
				continue
			}
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UserRepo perfiles en memoria.
type UserRepo struct{ v view }

// NewUserRepository construye el repositorio.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{v: view{store: s}} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, companyID string) ([]*entity.User, error) {
	var out []*entity.User
	r.v.read(func(st *state) {
		for _, u := range st.users {
			if companyID != "" && u.CompanyID != companyID {
				continue
			}
			out = append(out, &u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// Package memory implementa los puertos de persistencia y almacenamiento en
// memoria. Se usa con DB_DRIVER=memory / STORAGE_DRIVER=memory y en los tests.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

type state struct {
	companies  map[string]entity.Company
	projects   map[string]entity.Project
	categories map[string]entity.DocumentCategory
	users      map[string]entity.User
	controlled map[entity.Kind]map[string]entity.Controlled
	versions   map[entity.Kind]map[string]entity.Version
	entries    map[string]entity.RecordEntry
	roles      map[entity.Kind]map[string]entity.RoleAssignment
}

func newState() state {
	return state{
		companies:  map[string]entity.Company{},
		projects:   map[string]entity.Project{},
		categories: map[string]entity.DocumentCategory{},
		users:      map[string]entity.User{},
		controlled: map[entity.Kind]map[string]entity.Controlled{
			entity.KindDocument: {}, entity.KindRecord: {},
		},
		versions: map[entity.Kind]map[string]entity.Version{
			entity.KindDocument: {}, entity.KindRecord: {},
		},
		entries: map[string]entity.RecordEntry{},
		roles: map[entity.Kind]map[string]entity.RoleAssignment{
			entity.KindDocument: {}, entity.KindRecord: {},
		},
	}
}

// clone copia profunda; las transacciones trabajan sobre una copia y solo la
// publican si terminan sin error.
func (s state) clone() state {
	out := newState()
	for k, v := range s.companies {
		out.companies[k] = v
	}
	for k, v := range s.projects {
		out.projects[k] = cloneProject(v)
	}
	for k, v := range s.categories {
		out.categories[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for kind, m := range s.controlled {
		for k, v := range m {
			out.controlled[kind][k] = cloneControlled(v)
		}
	}
	for kind, m := range s.versions {
		for k, v := range m {
			out.versions[kind][k] = v
		}
	}
	for k, v := range s.entries {
		out.entries[k] = cloneEntry(v)
	}
	for kind, m := range s.roles {
		for k, v := range m {
			out.roles[kind][k] = v
		}
	}
	return out
}

func cloneProject(p entity.Project) entity.Project {
	p.Contacts = append([]entity.Contact(nil), p.Contacts...)
	p.EndDate = cloneTime(p.EndDate)
	return p
}

func cloneControlled(c entity.Controlled) entity.Controlled {
	c.ExpirationDate = cloneTime(c.ExpirationDate)
	c.ApprovedAt = cloneTime(c.ApprovedAt)
	return c
}

func cloneEntry(e entity.RecordEntry) entity.RecordEntry {
	e.ApprovedAt = cloneTime(e.ApprovedAt)
	return e
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view da acceso al estado: el de la transacción en curso o el global con su lock.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(&v.store.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(&v.store.st)
}

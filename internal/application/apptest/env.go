// Package apptest arma los servicios de aplicación sobre la infraestructura en
// memoria para los tests de aplicación y de HTTP.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/analytics"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/application/expiration"
	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/application/roles"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/memory"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// Now instante fijo de los tests.
var Now = time.Date(2026, 4, 15, 14, 0, 0, 0, time.UTC)

// Env servicios cableados sobre memoria.
type Env struct {
	Store   *memory.Store
	Storage *memory.ObjectStorage
	Tx      ports.TxRunner

	Companies  *memory.CompanyRepo
	Projects   *memory.ProjectRepo
	Categories *memory.CategoryRepo
	Users      *memory.UserRepo
	Controlled *memory.ControlledRepo
	Versions   *memory.VersionRepo
	Entries    *memory.EntryRepo
	Roles      *memory.RoleRepo

	Access     *access.Service
	Versioning *versioning.Service
	Lifecycle  *lifecycle.Service
	RoleSvc    *roles.Service
	Expiration *expiration.Service

	CompanyUC    *usecase.CompanyUseCase
	ProjectUC    *usecase.ProjectUseCase
	CategoryUC   *usecase.CategoryUseCase
	UserUC       *usecase.UserUseCase
	ControlledUC *usecase.ControlledUseCase
	EntryUC      *usecase.EntryUseCase
	MasterList   *analytics.MasterListUseCase
	Dashboard    *analytics.DashboardUseCase
}

// NewEnv construye un entorno vacío con reloj fijo en Now.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnvWithTx(t, nil)
}

// NewEnvWithTx permite envolver el TxRunner (por ejemplo para simular fallas).
func NewEnvWithTx(t *testing.T, wrap func(ports.TxRunner) ports.TxRunner) *Env {
	t.Helper()
	log := logger.Nop()
	clock := func() time.Time { return Now }
	store := memory.NewStore()
	e := &Env{
		Store:      store,
		Storage:    memory.NewObjectStorage(),
		Companies:  memory.NewCompanyRepository(store),
		Projects:   memory.NewProjectRepository(store),
		Categories: memory.NewCategoryRepository(store),
		Users:      memory.NewUserRepository(store),
		Controlled: memory.NewControlledRepository(store),
		Versions:   memory.NewVersionRepository(store),
		Entries:    memory.NewEntryRepository(store),
		Roles:      memory.NewRoleRepository(store),
	}
	var tx ports.TxRunner = memory.NewTxRunner(store)
	if wrap != nil {
		tx = wrap(tx)
	}
	e.Tx = tx
	policy := files.Policy{MaxBytes: 1 << 20, AllowedExtensions: []string{"pdf", "docx", "xlsx"}}
	links := files.NewLinks(e.Storage, nil, 10*time.Minute, log)

	e.Access = access.NewService(e.Projects, e.Controlled, e.Entries)
	e.Versioning = versioning.NewService(e.Access, e.Versions, tx, e.Storage, links, policy, log).WithClock(clock)
	e.Lifecycle = lifecycle.NewService(e.Access, tx, log).WithClock(clock)
	e.RoleSvc = roles.NewService(e.Access, e.Roles, tx, log)
	e.Expiration = expiration.NewService(e.Access, e.Controlled).WithClock(clock)

	e.CompanyUC = usecase.NewCompanyUseCase(e.Companies)
	e.ProjectUC = usecase.NewProjectUseCase(e.Projects, e.Companies, e.Access)
	e.CategoryUC = usecase.NewCategoryUseCase(e.Categories)
	e.UserUC = usecase.NewUserUseCase(e.Users, e.Companies)
	e.ControlledUC = usecase.NewControlledUseCase(e.Access, e.Versioning, e.Controlled, e.Categories, tx, e.Storage, links, log).WithClock(clock)
	e.EntryUC = usecase.NewEntryUseCase(e.Access, e.Entries, e.Storage, links, policy, log)
	e.MasterList = analytics.NewMasterListUseCase(e.Access, e.Companies, e.Categories, e.Controlled, e.Roles, pdf.NewMasterListGenerator()).WithClock(clock)
	e.Dashboard = analytics.NewDashboardUseCase(e.Access, memory.NewComplianceRepository(store)).WithClock(clock)
	return e
}

// Company registra una empresa.
func (e *Env) Company(t *testing.T, name, nit string) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.New().String(), Name: name, TaxID: nit, Active: true, CreatedAt: Now, UpdatedAt: Now}
	require.NoError(t, e.Companies.Create(context.Background(), c))
	return c
}

// Project registra un proyecto activo con los emails de contacto indicados.
func (e *Env) Project(t *testing.T, companyID, site string, contacts ...string) *entity.Project {
	t.Helper()
	p := &entity.Project{ID: uuid.New().String(), CompanyID: companyID, Site: site, Active: true, StartDate: Now, CreatedAt: Now, UpdatedAt: Now}
	for _, email := range contacts {
		p.Contacts = append(p.Contacts, entity.Contact{Name: email, Email: email})
	}
	require.NoError(t, e.Projects.Create(context.Background(), p))
	return p
}

// Category registra una categoría activa.
func (e *Env) Category(t *testing.T, name string, kind entity.Kind, required bool, renewalMonths int) *entity.DocumentCategory {
	t.Helper()
	c := &entity.DocumentCategory{ID: uuid.New().String(), Name: name, Type: kind, Required: required, RenewalMonths: renewalMonths, Active: true, CreatedAt: Now}
	require.NoError(t, e.Categories.Create(context.Background(), c))
	return c
}

// Admin usuario administrador (no persistido).
func Admin() *entity.User {
	return &entity.User{ID: "admin-1", Email: "admin@sgsst.co", Role: entity.RoleAdmin, Active: true}
}

// CompanyUser usuario de empresa (no persistido).
func CompanyUser(id, companyID, email string, canViewAll bool) *entity.User {
	return &entity.User{ID: id, Email: email, Role: entity.RoleCompanyUser, CompanyID: companyID, Active: true, CanViewAllCompanyProjects: canViewAll}
}

// PDF archivo de prueba válido.
func PDF(name string) files.Upload {
	return files.Upload{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 " + name)}
}

// CreateControlled crea un documento o formato con su primera versión.
func (e *Env) CreateControlled(t *testing.T, actor *entity.User, kind entity.Kind, projectID, categoryID, name string) *dto.VersionMutationResponse {
	t.Helper()
	out, err := e.ControlledUC.Create(context.Background(), actor, kind, dto.CreateControlledRequest{
		ProjectID:  projectID,
		CategoryID: categoryID,
		Name:       name,
		Code:       name,
	}, PDF(name+".pdf"))
	require.NoError(t, err)
	return out
}

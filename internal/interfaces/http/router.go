package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/sgsst-docs-api/internal/application/analytics"
	"github.com/jhoicas/sgsst-docs-api/internal/application/auth"
	appexpiration "github.com/jhoicas/sgsst-docs-api/internal/application/expiration"
	applifecycle "github.com/jhoicas/sgsst-docs-api/internal/application/lifecycle"
	approles "github.com/jhoicas/sgsst-docs-api/internal/application/roles"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	ProjectUC    *usecase.ProjectUseCase
	CategoryUC   *usecase.CategoryUseCase
	UserUC       *usecase.UserUseCase
	ControlledUC *usecase.ControlledUseCase
	EntryUC      *usecase.EntryUseCase
	Versioning   *versioning.Service
	Lifecycle    *applifecycle.Service
	Roles        *approles.Service
	Expiration   *appexpiration.Service
	MasterList   *appanalytics.MasterListUseCase
	Dashboard    *appanalytics.DashboardUseCase
	Identity     *auth.IdentityUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.Identity))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Companies (solo admin)
	companies := api.Group("/companies", adminOnly)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Projects (lectura filtrada por visibilidad; escritura admin)
	projects := api.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.Get)
	projects.Post("/", adminOnly, projectHandler.Create)
	projects.Put("/:id", adminOnly, projectHandler.Update)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/me", userHandler.Me)
	users := api.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)

	// Documents y record formats comparten handler
	registerControlled(api.Group("/documents"), NewControlledHandler(entity.KindDocument, deps.ControlledUC, deps.Versioning, deps.Lifecycle, deps.Roles))
	formats := api.Group("/record-formats")
	registerControlled(formats, NewControlledHandler(entity.KindRecord, deps.ControlledUC, deps.Versioning, deps.Lifecycle, deps.Roles))

	// Record entries
	entryHandler := NewEntryHandler(deps.EntryUC, deps.Lifecycle)
	formats.Get("/:id/entries", entryHandler.List)
	formats.Post("/:id/entries", entryHandler.Create)
	entries := api.Group("/record-entries")
	entries.Get("/:id", entryHandler.Get)
	entries.Get("/:id/download", entryHandler.Download)
	entries.Patch("/:id/status", entryHandler.Decide)
	entries.Delete("/:id", entryHandler.Delete)

	// Reportes
	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.MasterList, deps.Expiration)
	api.Get("/expiring", dashboardHandler.GetExpiring)
	api.Get("/master-list/:companyId", dashboardHandler.GetMasterList)
	api.Get("/master-list/:companyId/pdf", dashboardHandler.GetMasterListPDF)
	api.Get("/dashboard/compliance", dashboardHandler.GetCompliance)
}

func registerControlled(g fiber.Router, h *ControlledHandler) {
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
	g.Patch("/:id/status", h.Transition)
	g.Get("/:id/download", h.Download)
	g.Get("/:id/versions", h.ListVersions)
	g.Post("/:id/versions", h.AddVersion)
	g.Put("/:id/versions/:versionId/activate", h.ActivateVersion)
	g.Get("/:id/roles", h.GetRoles)
	g.Put("/:id/roles", h.SetRoles)
}

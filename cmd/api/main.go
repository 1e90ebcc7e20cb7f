package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/swaggo/swag"

	"github.com/jhoicas/sgsst-docs-api/docs"
	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	appanalytics "github.com/jhoicas/sgsst-docs-api/internal/application/analytics"
	"github.com/jhoicas/sgsst-docs-api/internal/application/auth"
	"github.com/jhoicas/sgsst-docs-api/internal/application/expiration"
	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/application/roles"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/cache"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/sgsst-docs-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sgsst-docs-api/internal/interfaces/http"
	"github.com/jhoicas/sgsst-docs-api/pkg/config"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// repos puertos de persistencia según DB_DRIVER.
type repos struct {
	companies  repository.CompanyRepository
	projects   repository.ProjectRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	controlled repository.ControlledRepository
	versions   repository.VersionRepository
	entries    repository.RecordEntryRepository
	roles      repository.RoleAssignmentRepository
	compliance repository.ComplianceRepository
	tx         ports.TxRunner
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r := openRepos(ctx, cfg, log)
	defer r.close()

	objects := openStorage(ctx, cfg, log)

	// Cache de URLs firmadas: opcional, sin REDIS_URL se firma en cada descarga.
	var urlCache ports.URLCache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisURLCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rc.Close()
		urlCache = rc
	}

	policy := files.Policy{MaxBytes: cfg.Upload.MaxBytes(), AllowedExtensions: cfg.Upload.AllowedExtensions}
	links := files.NewLinks(objects, urlCache, cfg.Storage.PresignTTL(), log)

	accessSvc := access.NewService(r.projects, r.controlled, r.entries)
	versioningSvc := versioning.NewService(accessSvc, r.versions, r.tx, objects, links, policy, log)
	lifecycleSvc := lifecycle.NewService(accessSvc, r.tx, log)
	rolesSvc := roles.NewService(accessSvc, r.roles, r.tx, log)
	expirationSvc := expiration.NewService(accessSvc, r.controlled)

	companyUC := usecase.NewCompanyUseCase(r.companies)
	projectUC := usecase.NewProjectUseCase(r.projects, r.companies, accessSvc)
	categoryUC := usecase.NewCategoryUseCase(r.categories)
	userUC := usecase.NewUserUseCase(r.users, r.companies)
	controlledUC := usecase.NewControlledUseCase(accessSvc, versioningSvc, r.controlled, r.categories, r.tx, objects, links, log)
	entryUC := usecase.NewEntryUseCase(accessSvc, r.entries, objects, links, policy, log)

	// PDF: listado maestro de documentos
	masterListUC := appanalytics.NewMasterListUseCase(accessSvc, r.companies, r.categories, r.controlled, r.roles, infrapdf.NewMasterListGenerator())
	dashboardUC := appanalytics.NewDashboardUseCase(accessSvc, r.compliance)
	identityUC := auth.NewIdentityUseCase(r.users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Upload.MaxBytes()) + 1<<20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SG-SST Documentos API",
	}))

	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:    companyUC,
		ProjectUC:    projectUC,
		CategoryUC:   categoryUC,
		UserUC:       userUC,
		ControlledUC: controlledUC,
		EntryUC:      entryUC,
		Versioning:   versioningSvc,
		Lifecycle:    lifecycleSvc,
		Roles:        rolesSvc,
		Expiration:   expirationSvc,
		MasterList:   masterListUC,
		Dashboard:    dashboardUC,
		Identity:     identityUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) repos {
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return repos{
			companies:  memory.NewCompanyRepository(store),
			projects:   memory.NewProjectRepository(store),
			categories: memory.NewCategoryRepository(store),
			users:      memory.NewUserRepository(store),
			controlled: memory.NewControlledRepository(store),
			versions:   memory.NewVersionRepository(store),
			entries:    memory.NewEntryRepository(store),
			roles:      memory.NewRoleRepository(store),
			compliance: memory.NewComplianceRepository(store),
			tx:         memory.NewTxRunner(store),
			close:      func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return repos{
		companies:  postgres.NewCompanyRepository(pool),
		projects:   postgres.NewProjectRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		users:      postgres.NewUserRepository(pool),
		controlled: postgres.NewControlledRepository(pool),
		versions:   postgres.NewVersionRepository(pool),
		entries:    postgres.NewEntryRepository(pool),
		roles:      postgres.NewRoleRepository(pool),
		compliance: postgres.NewComplianceRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.ObjectStorage {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("almacenamiento de archivos en memoria")
		return memory.NewObjectStorage()
	}
	s3, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente S3")
	}
	return s3
}

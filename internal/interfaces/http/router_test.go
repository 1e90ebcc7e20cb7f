package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/application/auth"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	apphttp "github.com/jhoicas/sgsst-docs-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sgsst-docs-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers del flujo completo
// ──────────────────────────────────────────────────────────────────────────────

type flow struct {
	t   *testing.T
	app *fiber.App
	env *apptest.Env
}

func newFlow(t *testing.T) *flow {
	t.Helper()
	env := apptest.NewEnv(t)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:    env.CompanyUC,
		ProjectUC:    env.ProjectUC,
		CategoryUC:   env.CategoryUC,
		UserUC:       env.UserUC,
		ControlledUC: env.ControlledUC,
		EntryUC:      env.EntryUC,
		Versioning:   env.Versioning,
		Lifecycle:    env.Lifecycle,
		Roles:        env.RoleSvc,
		Expiration:   env.Expiration,
		MasterList:   env.MasterList,
		Dashboard:    env.Dashboard,
		Identity:     auth.NewIdentityUseCase(env.Users),
		JWTSecret:    testJWTSecret,
	})
	return &flow{t: t, app: app, env: env}
}

func (f *flow) token(id pkgjwt.Identity) string {
	f.t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, id, testExpMin)
	require.NoError(f.t, err)
	return "Bearer " + tok
}

func (f *flow) admin() string {
	return f.token(pkgjwt.Identity{UserID: "admin-1", Email: "admin@sgsst.co", Role: entity.RoleAdmin})
}

func (f *flow) do(req *http.Request, token string) *http.Response {
	f.t.Helper()
	req.Header.Set("Authorization", token)
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	return resp
}

func (f *flow) json(method, path, token string, body any) *http.Response {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return f.do(req, token)
}

func (f *flow) multipart(path, token string, fields map[string]string, fileName string) *http.Response {
	f.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(f.t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", fileName)
	require.NoError(f.t, err)
	_, err = fw.Write([]byte("%PDF-1.4 " + fileName))
	require.NoError(f.t, err)
	require.NoError(f.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return f.do(req, token)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos: creación, versiones y restauración
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoDocumentoVersionesYRestauracion(t *testing.T) {
	f := newFlow(t)
	company := f.env.Company(t, "Constructora Andina", "900123456")
	project := f.env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := f.env.Category(t, "Matriz de peligros", entity.KindDocument, true, 12)
	admin := f.admin()

	resp := f.multipart("/api/documents", admin, map[string]string{
		"project_id":  project.ID,
		"category_id": cat.ID,
		"name":        "Matriz IPEVR",
		"code":        "SST-MT-01",
	}, "matriz.pdf")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.VersionMutationResponse](t, resp)
	assert.Equal(t, "1.0", created.Entity.Version)
	assert.True(t, created.Version.IsActive)
	docID := created.Entity.ID

	resp = f.multipart("/api/documents/"+docID+"/versions", admin, map[string]string{"version": "2.0"}, "matriz-v2.pdf")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decode[dto.VersionMutationResponse](t, resp)
	assert.Equal(t, "2.0", second.Entity.Version)

	// Etiqueta repetida
	resp = f.multipart("/api/documents/"+docID+"/versions", admin, map[string]string{"version": "2.0"}, "otra.pdf")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "DUPLICATE_VERSION_LABEL")

	resp = f.json(http.MethodPut, "/api/documents/"+docID+"/versions/"+created.Version.ID+"/activate", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decode[dto.VersionMutationResponse](t, resp)
	assert.Equal(t, "1.0", restored.Entity.Version)

	resp = f.json(http.MethodGet, "/api/documents/"+docID+"/versions", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	versions := decode[[]dto.VersionResponse](t, resp)
	require.Len(t, versions, 2)
	active := 0
	for _, v := range versions {
		if v.IsActive {
			active++
			assert.Equal(t, created.Version.ID, v.ID)
		}
	}
	assert.Equal(t, 1, active, "debe haber exactamente una versión activa")

	resp = f.json(http.MethodGet, "/api/documents/"+docID+"/download", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dl := decode[dto.DownloadResponse](t, resp)
	assert.Equal(t, "matriz.pdf", dl.FileName)
	assert.NotEmpty(t, dl.URL)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_VisibilidadPorContactoYRutasAdmin(t *testing.T) {
	f := newFlow(t)
	company := f.env.Company(t, "Constructora Andina", "900123456")
	project := f.env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := f.env.Category(t, "Política SST", entity.KindDocument, true, 0)
	doc := f.env.CreateControlled(t, apptest.Admin(), entity.KindDocument, project.ID, cat.ID, "Política")

	contact := f.token(pkgjwt.Identity{UserID: "u-1", Email: "RESIDENTE@andina.co", CompanyID: company.ID, Role: entity.RoleCompanyUser})
	outsider := f.token(pkgjwt.Identity{UserID: "u-2", Email: "otro@andina.co", CompanyID: company.ID, Role: entity.RoleCompanyUser})

	resp := f.json(http.MethodGet, "/api/documents/"+doc.Entity.ID, contact, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.json(http.MethodGet, "/api/documents/"+doc.Entity.ID, outsider, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.json(http.MethodGet, "/api/projects", outsider, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.ProjectResponse](t, resp))

	resp = f.json(http.MethodGet, "/api/companies", contact, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Un usuario de empresa no puede declarar Vigente
	resp = f.json(http.MethodPatch, "/api/documents/"+doc.Entity.ID+"/status", contact, dto.TransitionRequest{Status: "approved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.json(http.MethodGet, "/api/documents/does-not-exist", f.admin(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros llenos y promoción del formato en borrador
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DecisionDeRegistroPromueveFormatoEnBorrador(t *testing.T) {
	f := newFlow(t)
	company := f.env.Company(t, "Constructora Andina", "900123456")
	project := f.env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := f.env.Category(t, "Inspecciones", entity.KindRecord, true, 0)
	format := f.env.CreateControlled(t, apptest.Admin(), entity.KindRecord, project.ID, cat.ID, "Inspección de extintores")
	require.Equal(t, string(entity.StatusDraft), format.Entity.Status)

	contact := f.token(pkgjwt.Identity{UserID: "u-1", Email: "residente@andina.co", CompanyID: company.ID, Role: entity.RoleCompanyUser})
	resp := f.multipart("/api/record-formats/"+format.Entity.ID+"/entries", contact, map[string]string{
		"name":             "Inspección abril",
		"realization_date": "2026-04-10",
	}, "inspeccion.pdf")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[dto.EntryResponse](t, resp)
	assert.Equal(t, string(entity.EntryPending), entry.Status)

	// Solo un admin decide
	resp = f.json(http.MethodPatch, "/api/record-entries/"+entry.ID+"/status", contact, dto.DecisionRequest{Status: "approved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.json(http.MethodPatch, "/api/record-entries/"+entry.ID+"/status", f.admin(), dto.DecisionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[dto.DecisionResponse](t, resp)
	assert.Equal(t, string(entity.EntryApproved), decision.Entry.Status)
	assert.True(t, decision.FormatPromoted)
	require.NotNil(t, decision.Format)
	assert.Equal(t, string(entity.StatusApproved), decision.Format.Status)

	resp = f.json(http.MethodGet, "/api/record-formats/"+format.Entity.ID+"/entries", contact, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.EntryResponse](t, resp), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RolesYListadoMaestro(t *testing.T) {
	f := newFlow(t)
	company := f.env.Company(t, "Constructora Andina", "900123456")
	project := f.env.Project(t, company.ID, "Obra Norte", "ana@andina.co")
	cat := f.env.Category(t, "Procedimientos", entity.KindDocument, false, 0)
	doc := f.env.CreateControlled(t, apptest.Admin(), entity.KindDocument, project.ID, cat.ID, "Procedimiento alturas")
	admin := f.admin()

	resp := f.json(http.MethodPut, "/api/documents/"+doc.Entity.ID+"/roles", admin, dto.SetRolesRequest{Roles: []dto.RoleAssignmentDTO{
		{FirstName: "Ana", LastName: "Rojas", Email: "ana@andina.co", Role: "elaborator"},
		{FirstName: "Luis", LastName: "Pardo", Email: "luis@andina.co", Role: "approver"},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.RoleAssignmentDTO](t, resp), 2)

	resp = f.json(http.MethodPut, "/api/documents/"+doc.Entity.ID+"/roles", admin, dto.SetRolesRequest{Roles: []dto.RoleAssignmentDTO{
		{FirstName: "Ana", LastName: "Rojas", Email: "ana@andina.co", Role: "owner"},
	}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Ana figura como elaboradora: ve el documento en el listado maestro.
	ana := f.token(pkgjwt.Identity{UserID: "u-ana", Email: "ana@andina.co", CompanyID: company.ID, Role: entity.RoleCompanyUser})
	resp = f.json(http.MethodGet, "/api/master-list/"+company.ID, ana, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MasterListResponse](t, resp)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, []string{"Ana Rojas"}, list.Rows[0].Elaborators)

	resp = f.json(http.MethodGet, "/api/master-list/"+company.ID+"/pdf", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(resp.Header.Get("Content-Disposition"), "listado-maestro-900123456"))
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = f.json(http.MethodGet, "/api/expiring?days=-1", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.json(http.MethodGet, "/api/expiring", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exp := decode[dto.ExpiringResponse](t, resp)
	assert.Equal(t, 30, exp.Days)
	assert.NotNil(t, exp.Items)
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	applifecycle "github.com/jhoicas/sgsst-docs-api/internal/application/lifecycle"
	approles "github.com/jhoicas/sgsst-docs-api/internal/application/roles"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/roles"
)

// ControlledHandler documentos SST y formatos de registro. La misma lógica sirve
// /api/documents y /api/record-formats; kind decide cuál.
type ControlledHandler struct {
	kind       entity.Kind
	uc         *usecase.ControlledUseCase
	versioning *versioning.Service
	lifecycle  *applifecycle.Service
	roles      *approles.Service
	now        func() time.Time
}

// NewControlledHandler construye el handler para un tipo de elemento.
func NewControlledHandler(
	kind entity.Kind,
	uc *usecase.ControlledUseCase,
	vs *versioning.Service,
	ls *applifecycle.Service,
	rs *approles.Service,
) *ControlledHandler {
	return &ControlledHandler{kind: kind, uc: uc, versioning: vs, lifecycle: ls, roles: rs, now: time.Now}
}

// Create godoc
// @Summary      Crear documento o formato con su primera versión
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        project_id       formData  string  true   "Proyecto"
// @Param        category_id      formData  string  true   "Categoría normativa"
// @Param        name             formData  string  true   "Nombre"
// @Param        code             formData  string  false  "Código"
// @Param        version          formData  string  false  "Etiqueta de versión (por defecto 1.0)"
// @Param        stage            formData  string  false  "Etapa (Borrador, En revisión, Vigente)"
// @Param        expiration_date  formData  string  false  "Vencimiento AAAA-MM-DD"
// @Param        notes            formData  string  false  "Notas"
// @Param        change_note      formData  string  false  "Nota de cambio"
// @Param        file             formData  file    true   "Archivo"
// @Success      201  {object}  dto.VersionMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents [post]
// @Router       /api/record-formats [post]
func (h *ControlledHandler) Create(c *fiber.Ctx) error {
	file, err := formUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	exp, err := formDate(c, "expiration_date")
	if err != nil {
		return writeError(c, err)
	}
	in := dto.CreateControlledRequest{
		ProjectID:      c.FormValue("project_id"),
		CategoryID:     c.FormValue("category_id"),
		Name:           c.FormValue("name"),
		Code:           c.FormValue("code"),
		Label:          c.FormValue("version"),
		Stage:          c.FormValue("stage"),
		ExpirationDate: exp,
		Notes:          c.FormValue("notes"),
		ChangeNote:     c.FormValue("change_note"),
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), h.kind, in, file)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos o formatos visibles
// @Tags         documents
// @Produce      json
// @Param        project_id  query  string  false  "Limitar a un proyecto"
// @Success      200  {array}  dto.ControlledResponse
// @Router       /api/documents [get]
// @Router       /api/record-formats [get]
func (h *ControlledHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), h.kind, c.Query("project_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener documento o formato
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ControlledResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
// @Router       /api/record-formats/{id} [get]
func (h *ControlledHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar metadatos
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID"
// @Param        body  body  dto.UpdateControlledRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ControlledResponse
// @Router       /api/documents/{id} [put]
// @Router       /api/record-formats/{id} [put]
func (h *ControlledHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateControlledRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar con versiones, roles y registros (solo admin)
// @Tags         documents
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
// @Router       /api/record-formats/{id} [delete]
func (h *ControlledHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CurrentUser(c), h.kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transition godoc
// @Summary      Cambiar estado
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.TransitionRequest  true  "Estado destino"
// @Success      200   {object}  dto.ControlledResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/status [patch]
// @Router       /api/record-formats/{id}/status [patch]
func (h *ControlledHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	updated, err := h.lifecycle.TransitionControlled(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromControlled(updated, lifecycle.EffectiveStatus(updated, h.now())))
}

// ── Versiones ────────────────────────────────────────────────────────────────

// ListVersions godoc
// @Summary      Historial de versiones
// @Tags         versions
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {array}  dto.VersionResponse
// @Router       /api/documents/{id}/versions [get]
// @Router       /api/record-formats/{id}/versions [get]
func (h *ControlledHandler) ListVersions(c *fiber.Ctx) error {
	list, err := h.versioning.ListVersions(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.VersionResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.FromVersion(v))
	}
	return c.JSON(out)
}

// AddVersion godoc
// @Summary      Subir nueva versión (queda activa)
// @Tags         versions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "ID"
// @Param        version      formData  string  true   "Etiqueta de versión"
// @Param        stage        formData  string  false  "Etapa"
// @Param        change_note  formData  string  false  "Nota de cambio"
// @Param        file         formData  file    true   "Archivo"
// @Success      201  {object}  dto.VersionMutationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/versions [post]
// @Router       /api/record-formats/{id}/versions [post]
func (h *ControlledHandler) AddVersion(c *fiber.Ctx) error {
	file, err := formUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	v, updated, err := h.versioning.AddVersion(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), versioning.AddVersionInput{
		Label:      c.FormValue("version"),
		Stage:      c.FormValue("stage"),
		ChangeNote: c.FormValue("change_note"),
		File:       file,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mutation(v, updated))
}

// ActivateVersion godoc
// @Summary      Restaurar una versión anterior
// @Tags         versions
// @Produce      json
// @Param        id         path  string  true  "ID"
// @Param        versionId  path  string  true  "ID de la versión"
// @Success      200  {object}  dto.VersionMutationResponse
// @Router       /api/documents/{id}/versions/{versionId}/activate [put]
// @Router       /api/record-formats/{id}/versions/{versionId}/activate [put]
func (h *ControlledHandler) ActivateVersion(c *fiber.Ctx) error {
	v, updated, err := h.versioning.ActivateVersion(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), c.Params("versionId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mutation(v, updated))
}

// Download godoc
// @Summary      URL firmada del archivo (versión activa o la indicada)
// @Tags         versions
// @Produce      json
// @Param        id          path   string  true   "ID"
// @Param        version_id  query  string  false  "Versión; vacío = activa"
// @Success      200  {object}  dto.DownloadResponse
// @Router       /api/documents/{id}/download [get]
// @Router       /api/record-formats/{id}/download [get]
func (h *ControlledHandler) Download(c *fiber.Ctx) error {
	url, v, err := h.versioning.DownloadURL(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), c.Query("version_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DownloadResponse{URL: url, FileName: v.File.Name})
}

func (h *ControlledHandler) mutation(v *entity.Version, c *entity.Controlled) dto.VersionMutationResponse {
	return dto.VersionMutationResponse{
		Version: dto.FromVersion(v),
		Entity:  dto.FromControlled(c, lifecycle.EffectiveStatus(c, h.now())),
	}
}

// ── Roles ────────────────────────────────────────────────────────────────────

// GetRoles godoc
// @Summary      Personas que elaboran, revisan y aprueban
// @Tags         roles
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {array}  dto.RoleAssignmentDTO
// @Router       /api/documents/{id}/roles [get]
// @Router       /api/record-formats/{id}/roles [get]
func (h *ControlledHandler) GetRoles(c *fiber.Ctx) error {
	list, err := h.roles.ListRoles(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromRoles(list))
}

// SetRoles godoc
// @Summary      Reemplazar todos los roles
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.SetRolesRequest  true  "Roles"
// @Success      200   {array}  dto.RoleAssignmentDTO
// @Router       /api/documents/{id}/roles [put]
// @Router       /api/record-formats/{id}/roles [put]
func (h *ControlledHandler) SetRoles(c *fiber.Ctx) error {
	var in dto.SetRolesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rows := make([]roles.Input, 0, len(in.Roles))
	for _, r := range in.Roles {
		rows = append(rows, roles.Input{
			UserID:    r.UserID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Role:      r.Role,
		})
	}
	list, err := h.roles.SetRoles(c.UserContext(), CurrentUser(c), h.kind, c.Params("id"), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromRoles(list))
}

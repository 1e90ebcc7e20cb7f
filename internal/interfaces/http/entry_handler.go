package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	applifecycle "github.com/jhoicas/sgsst-docs-api/internal/application/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
)

// EntryHandler registros llenos de un formato.
type EntryHandler struct {
	uc        *usecase.EntryUseCase
	lifecycle *applifecycle.Service
	now       func() time.Time
}

// NewEntryHandler construye el handler.
func NewEntryHandler(uc *usecase.EntryUseCase, ls *applifecycle.Service) *EntryHandler {
	return &EntryHandler{uc: uc, lifecycle: ls, now: time.Now}
}

// Create godoc
// @Summary      Subir registro lleno
// @Tags         entries
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                path      string  true   "ID del formato"
// @Param        name              formData  string  true   "Nombre"
// @Param        realization_date  formData  string  false  "Fecha de realización AAAA-MM-DD"
// @Param        notes             formData  string  false  "Notas"
// @Param        file              formData  file    true   "Archivo"
// @Success      201  {object}  dto.EntryResponse
// @Router       /api/record-formats/{id}/entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	file, err := formUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	realized, err := formDate(c, "realization_date")
	if err != nil {
		return writeError(c, err)
	}
	in := dto.CreateEntryRequest{Name: c.FormValue("name"), Notes: c.FormValue("notes")}
	if realized != nil {
		in.RealizationDate = *realized
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), c.Params("id"), in, file)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Registros llenos de un formato
// @Tags         entries
// @Produce      json
// @Param        id   path  string  true  "ID del formato"
// @Success      200  {array}  dto.EntryResponse
// @Router       /api/record-formats/{id}/entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro lleno
// @Tags         entries
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.EntryResponse
// @Router       /api/record-entries/{id} [get]
func (h *EntryHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Aprobar o rechazar un registro lleno (solo admin)
// @Description  Si el formato está en borrador, pasa al mismo estado que el registro.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del registro"
// @Param        body  body  dto.DecisionRequest  true  "Decisión"
// @Success      200   {object}  dto.DecisionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/record-entries/{id}/status [patch]
func (h *EntryHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, format, err := h.lifecycle.DecideEntry(c.UserContext(), CurrentUser(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.DecisionResponse{Entry: dto.FromEntry(entry)}
	if format != nil {
		f := dto.FromControlled(format, lifecycle.EffectiveStatus(format, h.now()))
		out.Format = &f
		out.FormatPromoted = true
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      URL firmada del archivo del registro
// @Tags         entries
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.DownloadResponse
// @Router       /api/record-entries/{id}/download [get]
func (h *EntryHandler) Download(c *fiber.Ctx) error {
	out, err := h.uc.DownloadURL(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro lleno (solo admin)
// @Tags         entries
// @Param        id   path  string  true  "ID del registro"
// @Success      204
// @Router       /api/record-entries/{id} [delete]
func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

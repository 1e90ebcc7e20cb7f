package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/sgsst-docs-api/internal/application/analytics"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	appexpiration "github.com/jhoicas/sgsst-docs-api/internal/application/expiration"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/expiration"
)

// defaultExpiringDays ventana de GET /api/expiring sin parámetro days.
const defaultExpiringDays = 30

// DashboardHandler maneja los reportes: vencimientos, listado maestro y cumplimiento.
type DashboardHandler struct {
	dashboard  *appanalytics.DashboardUseCase
	masterList *appanalytics.MasterListUseCase
	expiring   *appexpiration.Service
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *appanalytics.DashboardUseCase, masterList *appanalytics.MasterListUseCase, expiring *appexpiration.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, masterList: masterList, expiring: expiring}
}

// GetExpiring devuelve los documentos y formatos visibles que vencen en los próximos días.
// GET /api/expiring?days=30
//
// Respuesta: ExpiringResponse, ordenada por fecha de vencimiento ascendente.
func (h *DashboardHandler) GetExpiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultExpiringDays)
	items, err := h.expiring.Expiring(c.UserContext(), CurrentUser(c), days)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ExpiringResponse{Days: days, Items: make([]dto.ExpiringItemDTO, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, dto.ExpiringItemDTO{
			Type:           string(it.Type),
			ID:             it.ID,
			Name:           it.Name,
			Code:           it.Code,
			ProjectID:      it.ProjectID,
			ProjectName:    it.ProjectName,
			ExpirationDate: it.ExpirationDate,
			DaysRemaining:  it.DaysRemaining,
			Severity:       expiration.Severity(it.DaysRemaining),
		})
	}
	return c.JSON(out)
}

// GetMasterList listado maestro de una empresa.
// GET /api/master-list/:companyId
func (h *DashboardHandler) GetMasterList(c *fiber.Ctx) error {
	out, err := h.masterList.Build(c.UserContext(), CurrentUser(c), c.Params("companyId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetMasterListPDF el mismo listado como PDF descargable.
// GET /api/master-list/:companyId/pdf
func (h *DashboardHandler) GetMasterListPDF(c *fiber.Ctx) error {
	data, filename, err := h.masterList.BuildPDF(c.UserContext(), CurrentUser(c), c.Params("companyId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// GetCompliance porcentaje de cumplimiento normativo por proyecto visible.
// GET /api/dashboard/compliance?company_id=
//
// Un proyecto cumple una categoría obligatoria si tiene al menos un elemento
// aprobado y no vencido de esa categoría.
func (h *DashboardHandler) GetCompliance(c *fiber.Ctx) error {
	out, err := h.dashboard.GetCompliance(c.UserContext(), CurrentUser(c), c.Query("company_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package ports

import "github.com/jhoicas/sgsst-docs-api/internal/application/dto"

// MasterListPDFGenerator genera el PDF del listado maestro.
type MasterListPDFGenerator interface {
	Generate(list *dto.MasterListResponse) ([]byte, error)
}

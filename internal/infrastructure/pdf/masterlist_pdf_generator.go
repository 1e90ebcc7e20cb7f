// Package pdf genera el Listado Maestro de documentos y registros del SG-SST
// (Decreto 1072 de 2015, control de documentos).
//
// Layout de la página A4 horizontal:
//
//	┌───────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT        │  LISTADO MAESTRO + Fecha           │
//	│  ───────────────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Código | Nombre | Versión | Estado | Categoría |        │
//	│         Proyecto | Vence | Elabora | Revisa | Aprueba                  │
//	│  ───────────────────────────────────────────────────────────────────  │
//	│  FOOTER: total de documentos y formatos                               │
//	└───────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
)

var _ ports.MasterListPDFGenerator = (*MasterListGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabel = map[string]string{
	"draft":          "Elaboración",
	"pending_review": "En revisión",
	"approved":       "Vigente",
	"rejected":       "Rechazado",
	"expired":        "Vencido",
}

var typeLabel = map[string]string{
	"document": "Documento",
	"record":   "Formato",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MasterListGenerator implementa ports.MasterListPDFGenerator usando Maroto v2.
type MasterListGenerator struct{}

// NewMasterListGenerator construye el generador.
func NewMasterListGenerator() *MasterListGenerator { return &MasterListGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MasterListGenerator) Generate(list *dto.MasterListResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Listado maestro SG-SST", true).
		WithAuthor(list.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(list))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(list.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(list.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar listado maestro: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y título + fecha (der).
func headerRow(list *dto.MasterListResponse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(list.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+list.CompanyNIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("LISTADO MAESTRO DE DOCUMENTOS Y REGISTROS", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+list.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

type column struct {
	label string
	size  int
}

var columns = []column{
	{"Tipo", 1}, {"Código", 1}, {"Nombre", 2}, {"Versión", 1}, {"Estado", 1},
	{"Categoría", 1}, {"Proyecto", 1}, {"Vence", 1}, {"Elabora / Revisa / Aprueba", 3},
}

// tableHeaderRow: cabecera con fondo del color primario.
func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por documento o formato.
func tableRows(rows []dto.MasterListRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	cell := props.Text{Size: 7, Top: 1, Left: 1, Right: 1}
	for _, r := range rows {
		expires := "—"
		if r.ExpirationDate != nil {
			expires = r.ExpirationDate.Format("02/01/2006")
		}
		values := []string{
			nonEmpty(typeLabel[r.Type], r.Type),
			nonEmpty(r.Code, "—"),
			r.Name,
			nonEmpty(r.Version, "—"),
			nonEmpty(statusLabel[r.Status], r.Status),
			nonEmpty(r.Category, "—"),
			r.ProjectSite,
			expires,
			people(r),
		}
		cols := make([]core.Col, 0, len(columns))
		for i, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[i], cell)))
		}
		result = append(result, row.New(9).Add(cols...))
	}
	return result
}

// footerRow: totales por tipo.
func footerRow(rows []dto.MasterListRow) core.Row {
	var docs, formats int
	for _, r := range rows {
		if r.Type == "record" {
			formats++
		} else {
			docs++
		}
	}
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Total: %d documentos, %d formatos de registro", docs, formats),
		props.Text{Size: 8, Top: 2, Color: colorGray},
	)))
}

func people(r dto.MasterListRow) string {
	return fmt.Sprintf("E: %s | R: %s | A: %s",
		nonEmpty(strings.Join(r.Elaborators, ", "), "—"),
		nonEmpty(strings.Join(r.Reviewers, ", "), "—"),
		nonEmpty(strings.Join(r.Approvers, ", "), "—"),
	)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

package expiration

import (
	"math"
	"sort"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// DefaultDays ventana usada cuando el cliente no indica días.
const DefaultDays = 30

// Item elemento próximo a vencer, etiquetado con su origen.
type Item struct {
	Type           entity.Kind
	ID             string
	Name           string
	Code           string
	ProjectID      string
	ProjectName    string
	ExpirationDate time.Time
	DaysRemaining  int
}

// Niveles de severidad para presentación.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityNormal   = "normal"
)

// Severity banda derivada de los días restantes (≤7, ≤15, resto).
func Severity(daysRemaining int) string {
	switch {
	case daysRemaining <= 7:
		return SeverityCritical
	case daysRemaining <= 15:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// DaysRemaining diferencia redondeada hacia arriba en días, nunca negativa.
func DaysRemaining(expiration, now time.Time) int {
	d := math.Ceil(expiration.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return int(d)
}

// ExpiringWithin filtra documentos y formatos cuya fecha de vencimiento cae en
// [hoy, hoy+days] (fechas de calendario, inclusivo) y que pertenecen a los
// proyectos visibles. El resultado va ordenado por fecha ascendente y luego por nombre.
func ExpiringWithin(now time.Time, days int, docs, formats []*entity.Controlled, visible []*entity.Project) []Item {
	projects := make(map[string]*entity.Project, len(visible))
	for _, p := range visible {
		projects[p.ID] = p
	}
	from := calendarDate(now)
	to := from.AddDate(0, 0, days)

	var items []Item
	collect := func(list []*entity.Controlled) {
		for _, c := range list {
			if c.ExpirationDate == nil {
				continue
			}
			p, ok := projects[c.ProjectID]
			if !ok {
				continue
			}
			day := calendarDate(*c.ExpirationDate)
			if day.Before(from) || day.After(to) {
				continue
			}
			items = append(items, Item{
				Type:           c.Kind,
				ID:             c.ID,
				Name:           c.Name,
				Code:           c.Code,
				ProjectID:      p.ID,
				ProjectName:    p.Site,
				ExpirationDate: *c.ExpirationDate,
				DaysRemaining:  DaysRemaining(*c.ExpirationDate, now),
			})
		}
	}
	collect(docs)
	collect(formats)

	sort.SliceStable(items, func(i, j int) bool {
		a, b := calendarDate(items[i].ExpirationDate), calendarDate(items[j].ExpirationDate)
		if !a.Equal(b) {
			return a.Before(b)
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

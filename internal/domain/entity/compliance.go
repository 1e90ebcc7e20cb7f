package entity

import "github.com/shopspring/decimal"

// ProjectCompliance resultado del tablero de cumplimiento para un proyecto.
type ProjectCompliance struct {
	ProjectID          string
	ProjectSite        string
	RequiredCategories int
	CoveredCategories  int
	Percentage         decimal.Decimal // 0..100, 2 decimales
	MissingCategories  []string
}

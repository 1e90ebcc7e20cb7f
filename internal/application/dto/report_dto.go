package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringItemDTO elemento próximo a vencer.
type ExpiringItemDTO struct {
	Type           string    `json:"type"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	ProjectID      string    `json:"project_id"`
	ProjectName    string    `json:"project_name"`
	ExpirationDate time.Time `json:"expiration_date"`
	DaysRemaining  int       `json:"days_remaining"`
	Severity       string    `json:"severity"`
}

// ExpiringResponse respuesta de GET /api/expiring.
type ExpiringResponse struct {
	Days  int               `json:"days"`
	Items []ExpiringItemDTO `json:"items"`
}

// MasterListRow fila del listado maestro.
type MasterListRow struct {
	Type           string     `json:"type"`
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Version        string     `json:"version"`
	Status         string     `json:"status"`
	Category       string     `json:"category"`
	ProjectID      string     `json:"project_id"`
	ProjectSite    string     `json:"project_site"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Elaborators    []string   `json:"elaborators"`
	Reviewers      []string   `json:"reviewers"`
	Approvers      []string   `json:"approvers"`
}

// MasterListResponse listado maestro de documentos y formatos de una empresa.
type MasterListResponse struct {
	CompanyID   string          `json:"company_id"`
	CompanyName string          `json:"company_name"`
	CompanyNIT  string          `json:"company_nit"`
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        []MasterListRow `json:"rows"`
}

// ProjectComplianceDTO cumplimiento normativo de un proyecto.
type ProjectComplianceDTO struct {
	ProjectID          string          `json:"project_id"`
	ProjectSite        string          `json:"project_site"`
	RequiredCategories int             `json:"required_categories"`
	CoveredCategories  int             `json:"covered_categories"`
	Percentage         decimal.Decimal `json:"percentage"`
	MissingCategories  []string        `json:"missing_categories"`
}

// ComplianceDashboardDTO respuesta de GET /api/dashboard/compliance.
type ComplianceDashboardDTO struct {
	Projects []ProjectComplianceDTO `json:"projects"`
	Overall  decimal.Decimal        `json:"overall_percentage"`
}

package dto

import "time"

// ContactDTO persona de contacto de un proyecto.
type ContactDTO struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

// CreateProjectRequest entrada para crear un proyecto. Fechas en formato 2006-01-02.
type CreateProjectRequest struct {
	CompanyID   string       `json:"company_id" validate:"required,uuid"`
	Site        string       `json:"site" validate:"required,min=1,max=200"`
	Description string       `json:"description"`
	StartDate   string       `json:"start_date" validate:"required"`
	EndDate     *string      `json:"end_date"`
	Status      string       `json:"status"`
	Contacts    []ContactDTO `json:"contacts"`
}

// UpdateProjectRequest campos opcionales. La empresa de un proyecto no se cambia.
type UpdateProjectRequest struct {
	Site        *string       `json:"site"`
	Description *string       `json:"description"`
	EndDate     *string       `json:"end_date"`
	Status      *string       `json:"status"`
	Active      *bool         `json:"active"`
	Contacts    *[]ContactDTO `json:"contacts"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID          string       `json:"id"`
	CompanyID   string       `json:"company_id"`
	Site        string       `json:"site"`
	Description string       `json:"description"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	Status      string       `json:"status"`
	Active      bool         `json:"active"`
	Contacts    []ContactDTO `json:"contacts"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateCategoryRequest entrada para crear una categoría normativa.
type CreateCategoryRequest struct {
	Name               string `json:"name" validate:"required"`
	NormativeReference string `json:"normative_reference"`
	Type               string `json:"type" validate:"required,oneof=document record"`
	Required           bool   `json:"required"`
	RenewalMonths      int    `json:"renewal_months" validate:"min=0"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	NormativeReference string    `json:"normative_reference"`
	Type               string    `json:"type"`
	Required           bool      `json:"required"`
	RenewalMonths      int       `json:"renewal_months"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

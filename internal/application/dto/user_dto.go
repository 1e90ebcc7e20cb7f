package dto

import "time"

// CreateUserRequest registra el perfil de un usuario ya existente en el proveedor de identidad.
type CreateUserRequest struct {
	ID                        string `json:"id" validate:"required"`
	Email                     string `json:"email" validate:"required,email"`
	Name                      string `json:"name" validate:"required,min=1,max=200"`
	Role                      string `json:"role" validate:"required,oneof=admin company_user"`
	CompanyID                 string `json:"company_id"`
	CanViewAllCompanyProjects bool   `json:"can_view_all_company_projects"`
}

// UpdateUserRequest campos opcionales del perfil.
type UpdateUserRequest struct {
	Name                      *string `json:"name"`
	Role                      *string `json:"role" validate:"omitempty,oneof=admin company_user"`
	CompanyID                 *string `json:"company_id"`
	Active                    *bool   `json:"active"`
	CanViewAllCompanyProjects *bool   `json:"can_view_all_company_projects"`
}

// UserResponse salida de un perfil.
type UserResponse struct {
	ID                        string    `json:"id"`
	CompanyID                 string    `json:"company_id,omitempty"`
	Email                     string    `json:"email"`
	Name                      string    `json:"name"`
	Role                      string    `json:"role"`
	Active                    bool      `json:"active"`
	CanViewAllCompanyProjects bool      `json:"can_view_all_company_projects"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
)

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleCompanyUser = "company_user"
)

// User perfil del usuario autenticado. La identidad (ID, email) la emite el proveedor externo.
type User struct {
	ID                        string
	Email                     string
	Name                      string
	Role                      string // admin, company_user
	CompanyID                 string // obligatorio para company_user
	Active                    bool
	CanViewAllCompanyProjects bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// IsAdmin informa si el usuario tiene rol administrador.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasBlanketAccess admin o usuario con permiso de ver todos los proyectos de su empresa.
func (u *User) HasBlanketAccess() bool {
	return u.IsAdmin() || (u != nil && u.CanViewAllCompanyProjects)
}

// Validate comprueba el rol y que un company_user tenga empresa.
func (u *User) Validate() error {
	switch u.Role {
	case RoleAdmin:
	case RoleCompanyUser:
		if strings.TrimSpace(u.CompanyID) == "" {
			return fmt.Errorf("%w: company_user requiere empresa", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: rol de usuario %q desconocido", domain.ErrValidation, u.Role)
	}
	return nil
}

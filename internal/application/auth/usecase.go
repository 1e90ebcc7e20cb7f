package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/pkg/jwt"
)

// IdentityUseCase resuelve el usuario efectivo a partir de la identidad del token.
// Los tokens los emite el proveedor de identidad; aquí solo se consumen.
type IdentityUseCase struct {
	users repository.UserRepository
}

// NewIdentityUseCase construye el caso de uso.
func NewIdentityUseCase(users repository.UserRepository) *IdentityUseCase {
	return &IdentityUseCase{users: users}
}

// Resolve devuelve el perfil registrado (fuente de verdad de rol, empresa y permisos)
// o, si el sujeto no tiene perfil, un usuario construido con los claims.
// Un perfil inactivo produce ErrPermissionDenied.
func (uc *IdentityUseCase) Resolve(ctx context.Context, id jwt.Identity) (*entity.User, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if u == nil && id.Email != "" {
		if u, err = uc.users.GetByEmail(ctx, id.Email); err != nil {
			return nil, fmt.Errorf("obtener perfil por email: %w", err)
		}
	}
	if u != nil {
		if !u.Active {
			return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrPermissionDenied)
		}
		return u, nil
	}
	claimsUser := &entity.User{
		ID:                        id.UserID,
		Email:                     id.Email,
		Role:                      id.Role,
		CompanyID:                 id.CompanyID,
		Active:                    true,
		CanViewAllCompanyProjects: id.CanViewAllCompanyProjects,
	}
	if err := claimsUser.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	}
	return claimsUser, nil
}

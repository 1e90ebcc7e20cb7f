package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// UserUseCase perfiles de usuario. La identidad (ID, credenciales) vive en el proveedor externo.
type UserUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserRepository, companies repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{users: users, companies: companies}
}

// Create registra el perfil. Devuelve ErrDuplicate si el id o el email ya tienen perfil.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	now := time.Now()
	u := &entity.User{
		ID:                        strings.TrimSpace(in.ID),
		Email:                     strings.TrimSpace(in.Email),
		Name:                      strings.TrimSpace(in.Name),
		Role:                      in.Role,
		CompanyID:                 strings.TrimSpace(in.CompanyID),
		Active:                    true,
		CanViewAllCompanyProjects: in.CanViewAllCompanyProjects,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	if u.ID == "" || u.Email == "" {
		return nil, domain.ErrValidation
	}
	if err := uc.validate(ctx, u); err != nil {
		return nil, err
	}
	if existing, err := uc.users.GetByID(ctx, u.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if existing, err := uc.users.GetByEmail(ctx, u.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}
	out := dto.FromUser(u)
	return &out, nil
}

// Update cambia rol, empresa, estado o el permiso de acceso global.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.CompanyID != nil {
		u.CompanyID = strings.TrimSpace(*in.CompanyID)
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.CanViewAllCompanyProjects != nil {
		u.CanViewAllCompanyProjects = *in.CanViewAllCompanyProjects
	}
	if err := uc.validate(ctx, u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, err
	}
	out := dto.FromUser(u)
	return &out, nil
}

// List perfiles, opcionalmente de una empresa.
func (uc *UserUseCase) List(ctx context.Context, companyID string) ([]dto.UserResponse, error) {
	list, err := uc.users.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

func (uc *UserUseCase) validate(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.CompanyID == "" {
		return nil
	}
	company, err := uc.companies.GetByID(ctx, u.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para los perfiles de usuario (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List perfiles; companyID vacío = todos.
	List(ctx context.Context, companyID string) ([]*entity.User, error)
}

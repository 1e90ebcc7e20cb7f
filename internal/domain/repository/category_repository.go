package repository

import (
	"context"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para DocumentCategory (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.DocumentCategory) error
	GetByID(ctx context.Context, id string) (*entity.DocumentCategory, error)
	// List categorías activas; kind vacío = todos los tipos.
	List(ctx context.Context, kind entity.Kind) ([]*entity.DocumentCategory, error)
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// CategoryUseCase categorías normativas (compartidas por todas las empresas).
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create registra una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	kind, err := entity.ParseKind(in.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.RenewalMonths < 0 {
		return nil, fmt.Errorf("%w: nombre obligatorio y meses de renovación >= 0", domain.ErrValidation)
	}
	c := &entity.DocumentCategory{
		ID:                 uuid.New().String(),
		Name:               strings.TrimSpace(in.Name),
		NormativeReference: in.NormativeReference,
		Type:               kind,
		Required:           in.Required,
		RenewalMonths:      in.RenewalMonths,
		Active:             true,
		CreatedAt:          time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.FromCategory(c)
	return &out, nil
}

// List categorías activas, opcionalmente de un tipo.
func (uc *CategoryUseCase) List(ctx context.Context, kind string) ([]dto.CategoryResponse, error) {
	var k entity.Kind
	if kind != "" {
		parsed, err := entity.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		k = parsed
	}
	list, err := uc.repo.List(ctx, k)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromCategory(c))
	}
	return out, nil
}

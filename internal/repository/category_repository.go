package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
}

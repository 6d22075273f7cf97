package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type ShopRepository interface {
	FindByID(ctx context.Context, id string) (model.Shop, error)
	FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error)
	Create(ctx context.Context, s model.Shop) (model.Shop, error)
}

package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, commandeID string, items []model.OrderItem) error
	ListByCommandeID(ctx context.Context, commandeID string) ([]model.OrderItem, error)
}

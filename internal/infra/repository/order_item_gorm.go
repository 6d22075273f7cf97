package repository

import (
	"context"

	"marketplace/internal/domain/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 注文明細を一括INSERT
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, commandeID string, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].CommandeID = commandeID
	}

	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *OrderItemGormRepository) ListByCommandeID(ctx context.Context, commandeID string) ([]model.OrderItem, error) {
	var items []model.OrderItem

	err := r.db.WithContext(ctx).
		Where("commande_id = ?", commandeID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

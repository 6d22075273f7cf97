package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

// order_number の一意制約に当たったとき
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type CommandeRepository interface {
	Create(ctx context.Context, c model.Commande) error
	// 明細ごと読み込む
	FindByID(ctx context.Context, id string) (model.Commande, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Commande, error)
	ListByShopID(ctx context.Context, shopID string) ([]model.Commande, error)
	Update(ctx context.Context, c model.Commande) error
}

package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartItemRepository interface {
	// バリアント→商品→ショップまで読み込んで返す
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID string) (model.CartItem, error)
	FindByCartAndVariant(ctx context.Context, cartID string, variantID string) (model.CartItem, error)

	// 同一バリアントは数量加算
	UpsertByCartAndVariant(ctx context.Context, cartID string, variantID string, addQty int) error
	UpdateQuantity(ctx context.Context, cartItemID string, qty int) error
	DeleteByID(ctx context.Context, cartItemID string) error
	DeleteByIDs(ctx context.Context, cartItemIDs []string) error
	DeleteByCartID(ctx context.Context, cartID string) error

	IsOwnedByUser(ctx context.Context, cartItemID string, userID string) (bool, error)
}

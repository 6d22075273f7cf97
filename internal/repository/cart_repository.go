package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartRepository interface {
	// カート作成はこの経路だけ。1ユーザー1カートを保証する
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error)
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)
}

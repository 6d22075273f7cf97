package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 公開一覧の検索条件
type ProductListQuery struct {
	Page  int
	Limit int
	Q     string
}

// 商品の永続化だけを約束。
// FindByID はバリアント＋属性値＋ショップまで読み込んで返す。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListByShopID(ctx context.Context, shopID string) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
}

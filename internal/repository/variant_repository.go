package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type VariantRepository interface {
	FindByID(ctx context.Context, id string) (model.Variant, error)
	ListByProductID(ctx context.Context, productID string) ([]model.Variant, error)
	// 属性値ごと作成する
	Create(ctx context.Context, v model.Variant) (model.Variant, error)
	SetActive(ctx context.Context, variantID string, active bool) error
}

// 在庫の永続化。減算は必ず条件付きUPDATEで行う（負在庫の禁止）。
type StockRepository interface {
	// 在庫が足りるときだけ減算。足りなければ false
	DecreaseStockIfEnough(ctx context.Context, variantID string, qty int) (bool, error)

	// 補充（キャンセル後の戻しもここ）
	IncreaseStock(ctx context.Context, variantID string, qty int) error
}

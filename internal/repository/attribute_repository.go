package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

// lower(name) の一意インデックスに当たったとき。呼び出し側は既存行を
// 引き直せばよい。
var ErrDuplicateAttributeName = errors.New("duplicate attribute name")

type AttributeRepository interface {
	// 名前の大小は区別しない
	FindByName(ctx context.Context, name string) (model.Attribute, error)
	List(ctx context.Context) ([]model.Attribute, error)
	Create(ctx context.Context, a model.Attribute) (model.Attribute, error)
}

package model

import "time"

// カートの明細。同じバリアントは1行にまとめ、数量を加算する。
// バリアントは参照するだけで所有しない。
type CartItem struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	CartID    string `gorm:"type:uuid;not null;index;uniqueIndex:uq_cart_variant" json:"cart_id"`
	VariantID string `gorm:"type:uuid;not null;uniqueIndex:uq_cart_variant" json:"variant_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`

	Variant Variant `gorm:"foreignKey:VariantID" json:"variant"`

	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

package model

import (
	"sort"
	"strings"
	"time"
)

// バリアント＝購入可能な具体構成（サイズ×色など）。
// 在庫はバリアント単位。在庫操作は必ずこのメソッド経由にする。
type Variant struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	SKU       string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Stock     int    `gorm:"not null;default:0" json:"stock"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`
	ProductID string `gorm:"type:uuid;not null;index" json:"product_id"`

	AttributeValues []AttributeValue `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"attribute_values,omitempty"`

	//所有しない参照。カート表示で親の商品情報を辿るためのもの
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (v *Variant) IsInStock() bool {
	return v.Stock > 0
}

func (v *Variant) HasEnoughStock(quantity int) bool {
	return v.Stock >= quantity
}

// 在庫が足りるときだけ減らす。足りなければ何もせず false。
func (v *Variant) ReduceStock(quantity int) bool {
	if v.HasEnoughStock(quantity) {
		v.Stock -= quantity
		return true
	}
	return false
}

// 補充。上限は設けない。
func (v *Variant) IncreaseStock(quantity int) {
	v.Stock += quantity
}

// 属性名→値のシグネチャ。キーは小文字に正規化する。
func (v *Variant) Signature() map[string]string {
	sig := make(map[string]string, len(v.AttributeValues))
	for _, av := range v.AttributeValues {
		sig[strings.ToLower(av.AttributeName())] = av.Value
	}
	return sig
}

// 表示用。"Rouge, M" のような値の列挙。
func (v *Variant) AttributeDescription() string {
	if len(v.AttributeValues) == 0 {
		return ""
	}
	values := make([]string, 0, len(v.AttributeValues))
	for _, av := range v.AttributeValues {
		values = append(values, av.Value)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

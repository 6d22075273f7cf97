package model

import "time"

// 注文明細。単価は注文時点の商品価格のスナップショットで、
// 以後の価格変更の影響を受けない。
type OrderItem struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	CommandeID string `gorm:"type:uuid;not null;index" json:"commande_id"`

	//参照のみ。バリアント削除に巻き込まない
	VariantID string `gorm:"type:uuid;not null;index" json:"variant_id"`

	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`

	//表示用スナップショット
	ProductNameSnapshot string `gorm:"type:varchar(200);not null" json:"product_name_snapshot"`
	VariantSKUSnapshot  string `gorm:"type:varchar(50);not null" json:"variant_sku_snapshot"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (oi *OrderItem) SubTotal() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}

package model

import "time"

// 商品。1つのショップ・1つのカテゴリに属する。
// バリアントは商品が所有する（商品削除でバリアントも消える）。
type Product struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(200);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Picture     string  `gorm:"type:varchar(255)" json:"picture"`

	//基準価格。注文時にこの値をスナップショットする
	Price float64 `gorm:"not null" json:"price"`

	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`
	ShopID     string `gorm:"type:uuid;not null;index" json:"shop_id"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`

	//所有しない参照
	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// アクティブなバリアントだけを返す
func (p *Product) ActiveVariants() []Variant {
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.IsActive {
			out = append(out, v)
		}
	}
	return out
}

func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.IsActive {
			total += v.Stock
		}
	}
	return total
}

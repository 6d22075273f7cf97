package model

import "time"

// 出店ショップ。配送料はショップ単位で持つ。
type Shop struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	BrandName   string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"brand_name"`
	Description string  `gorm:"type:text" json:"description"`
	LogoPicture string  `gorm:"type:varchar(255)" json:"logo_picture"`
	Address     string  `gorm:"type:varchar(255)" json:"address"`

	//注文合計に加算される配送料
	DeliveryFee float64 `gorm:"not null;default:0" json:"delivery_fee"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	OwnerID   string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

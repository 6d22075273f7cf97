package model

import "time"

// 属性定義（"Color" など）。名前は大文字小文字を区別せず一意。
type Attribute struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`

	//型タグ。いまは自由文字列で、型付きバリデーションは予約
	Type string `gorm:"type:varchar(20);not null" json:"type"`

	IsRequired bool      `gorm:"not null;default:false" json:"is_required"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

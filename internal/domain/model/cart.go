package model

import "time"

// カート。1ユーザーにつき1つで、初回追加時に作られる。
// 注文確定やクリアでは明細だけ消え、カート自体は残る。
type Cart struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

package model

import "time"

// 注文の状態。遷移は CanTransition の表に従う。
type EtatCommande string

const (
	//作成直後。ショップ側が未着手
	EtatPending EtatCommande = "PENDING"
	//ショップが準備中
	EtatProcessing EtatCommande = "PROCESSING"
	//発送済み
	EtatShipped EtatCommande = "SHIPPED"
	//配達完了（終端）
	EtatDelivered EtatCommande = "DELIVERED"
	//キャンセル（終端）
	EtatCancelled EtatCommande = "CANCELLED"
)

func (e EtatCommande) Valid() bool {
	switch e {
	case EtatPending, EtatProcessing, EtatShipped, EtatDelivered, EtatCancelled:
		return true
	}
	return false
}

func (e EtatCommande) IsTerminal() bool {
	return e == EtatDelivered || e == EtatCancelled
}

// 許可される遷移だけ true。
// PENDING→PROCESSING→SHIPPED→DELIVERED、キャンセルは PENDING/PROCESSING からのみ。
func (e EtatCommande) CanTransition(to EtatCommande) bool {
	switch e {
	case EtatPending:
		return to == EtatProcessing || to == EtatCancelled
	case EtatProcessing:
		return to == EtatShipped || to == EtatCancelled
	case EtatShipped:
		return to == EtatDelivered
	}
	return false
}

// 注文。カートのうち1ショップ分を確定した不変のスナップショット。
// 合計は作成時に一度だけ計算し、以後再計算しない。
type Commande struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	//CMD-YYYYMMDD-NNNNN 形式。DB側でも一意制約
	OrderNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	ShopID string `gorm:"type:uuid;not null;index" json:"shop_id"`

	DeliveryAddress    string `gorm:"type:varchar(255);not null" json:"delivery_address"`
	DeliveryPostalCode string `gorm:"type:varchar(20);not null" json:"delivery_postal_code"`

	DeliveryFee float64 `gorm:"not null;default:0" json:"delivery_fee"`

	//明細小計＋配送料。作成時に確定
	Total float64 `gorm:"not null" json:"total"`

	Etat EtatCommande `gorm:"type:varchar(20);not null;index" json:"etat"`

	OrderItems []OrderItem `gorm:"foreignKey:CommandeID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// 明細小計（配送料抜き）
func (c *Commande) Subtotal() float64 {
	var subtotal float64
	for _, it := range c.OrderItems {
		subtotal += it.SubTotal()
	}
	return subtotal
}

// 数量の合計
func (c *Commande) TotalItemCount() int {
	total := 0
	for _, it := range c.OrderItems {
		total += it.Quantity
	}
	return total
}

// 明細行数
func (c *Commande) UniqueItemCount() int {
	return len(c.OrderItems)
}

func (c *Commande) CanBeCancelled() bool {
	return c.Etat.CanTransition(EtatCancelled)
}

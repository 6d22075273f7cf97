package model

import "time"

// バリアントに付く属性値。(variant, attribute) の組は一意。
type AttributeValue struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Value       string `gorm:"type:varchar(100);not null" json:"value"`
	VariantID   string `gorm:"type:uuid;not null;index;uniqueIndex:uq_variant_attribute" json:"variant_id"`
	AttributeID string `gorm:"type:uuid;not null;uniqueIndex:uq_variant_attribute" json:"attribute_id"`

	Attribute Attribute `gorm:"foreignKey:AttributeID" json:"attribute"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (av *AttributeValue) AttributeName() string {
	return av.Attribute.Name
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func variantWithAttrs(stock int, attrs map[string]string) Variant {
	v := Variant{ID: "v1", SKU: "SKU-1", Stock: stock, IsActive: true}
	for name, value := range attrs {
		v.AttributeValues = append(v.AttributeValues, AttributeValue{
			Value:     value,
			Attribute: Attribute{Name: name},
		})
	}
	return v
}

func TestVariant_StockChecks(t *testing.T) {
	v := variantWithAttrs(5, nil)

	assert.True(t, v.IsInStock())
	assert.True(t, v.HasEnoughStock(5))
	assert.False(t, v.HasEnoughStock(6))

	empty := variantWithAttrs(0, nil)
	assert.False(t, empty.IsInStock())
	assert.False(t, empty.HasEnoughStock(1))
	//0個の要求は常に満たせる
	assert.True(t, empty.HasEnoughStock(0))
}

// 足りないときは減らさない（負在庫の禁止）
func TestVariant_ReduceStock(t *testing.T) {
	v := variantWithAttrs(5, nil)

	assert.True(t, v.ReduceStock(3))
	assert.Equal(t, 2, v.Stock)

	assert.False(t, v.ReduceStock(3))
	assert.Equal(t, 2, v.Stock)

	assert.True(t, v.ReduceStock(2))
	assert.Equal(t, 0, v.Stock)
}

func TestVariant_IncreaseStock(t *testing.T) {
	v := variantWithAttrs(0, nil)

	v.IncreaseStock(7)
	assert.Equal(t, 7, v.Stock)
}

// シグネチャのキーは小文字に正規化される
func TestVariant_Signature(t *testing.T) {
	v := variantWithAttrs(1, map[string]string{"Couleur": "Rouge", "TAILLE": "M"})

	sig := v.Signature()
	assert.Equal(t, map[string]string{"couleur": "Rouge", "taille": "M"}, sig)
}

// 表示用の値はソートされる（map順に依存しない）
func TestVariant_AttributeDescription(t *testing.T) {
	v := variantWithAttrs(1, map[string]string{"Couleur": "Rouge", "Taille": "M"})

	assert.Equal(t, "M, Rouge", v.AttributeDescription())
	empty := variantWithAttrs(1, nil)
	assert.Equal(t, "", empty.AttributeDescription())
}

func TestProduct_ActiveVariantsAndTotalStock(t *testing.T) {
	p := Product{
		Variants: []Variant{
			{ID: "v1", Stock: 3, IsActive: true},
			{ID: "v2", Stock: 5, IsActive: false},
			{ID: "v3", Stock: 2, IsActive: true},
		},
	}

	active := p.ActiveVariants()
	assert.Len(t, active, 2)
	//無効バリアントの在庫は数えない
	assert.Equal(t, 5, p.TotalStock())
}

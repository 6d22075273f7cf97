package usecase

import (
	"strings"

	"marketplace/internal/domain/model"
)

// ResolveVariant は選択された属性（名前→値）に一致するバリアントを1つ返す。
// 読み込み済みデータの上で動く純関数で、副作用は無い。
//
// 一致条件はシグネチャの完全一致：選択のすべてのキーが同じ値で存在し、
// かつバリアント側の属性数が選択の数と同じであること。部分一致・上位集合
// 一致は許さない（属性構成の異なるバリアントが混在しても曖昧にならない）。
//
// 構造上一致するバリアントが無効化されている場合は ErrVariantInactive を
// 返し、「存在しない」（ErrNoMatchingVariant）と区別する。
func ResolveVariant(product *model.Product, selected map[string]string) (*model.Variant, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	//属性名の大小は区別しない
	normalized := make(map[string]string, len(selected))
	for name, value := range selected {
		normalized[strings.ToLower(name)] = value
	}

	var inactiveMatch bool

	for i := range product.Variants {
		v := &product.Variants[i]
		if !variantMatchesSelection(v, normalized) {
			continue
		}
		if !v.IsActive {
			inactiveMatch = true
			continue
		}
		//作成時にシグネチャの一意性を強制しているので、一致は高々1つ
		return v, nil
	}

	if inactiveMatch {
		return nil, ErrVariantInactive
	}
	return nil, ErrNoMatchingVariant
}

func variantMatchesSelection(v *model.Variant, selected map[string]string) bool {
	sig := v.Signature()
	if len(sig) != len(selected) {
		return false
	}
	for name, value := range selected {
		if sig[name] != value {
			return false
		}
	}
	return true
}

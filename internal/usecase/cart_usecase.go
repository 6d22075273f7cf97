package usecase

import (
	"context"
	"errors"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"go.uber.org/zap"
)

// カートの業務ロジック。
// 在庫チェックは常にバリアントの在庫カウンタに対して行い、
// 追加は累積数量、数量変更は絶対数量で判定する。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	logger       *zap.Logger
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	logger *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// カート明細の画面向け射影
type CartItemView struct {
	ID                 string            `json:"id"`
	ProductID          string            `json:"product_id"`
	VariantID          string            `json:"variant_id"`
	Name               string            `json:"name"`
	VariantName        string            `json:"variant_name"`
	UnitPrice          float64           `json:"unit_price"`
	SelectedAttributes map[string]string `json:"selected_attributes"`
	Quantity           int               `json:"quantity"`
	Picture            string            `json:"picture"`
	ShopName           string            `json:"shop_name"`
	SubTotal           float64           `json:"sub_total"`
}

// ショップ単位のまとまり
type ShopCartView struct {
	ShopID    string         `json:"shop_id"`
	ShopName  string         `json:"shop_name"`
	Items     []CartItemView `json:"items"`
	ShopTotal float64        `json:"shop_total"`
	ItemCount int            `json:"item_count"`
}

// カート全体の集計ビュー
type CartView struct {
	ShopCarts  []ShopCartView `json:"shop_carts"`
	TotalPrice float64        `json:"total_price"`
	TotalItems int            `json:"total_items"`
	ShopCount  int            `json:"shop_count"`
}

type AddToCartInput struct {
	ProductID          string
	SelectedAttributes map[string]string
	Quantity           int
}

// AddToCart は属性選択をバリアントに解決してカートへ追加する。
// 既に同じバリアントがある場合は「既存数量＋追加数量」で在庫判定する。
// 小分けに追加しても一度に追加しても同じ上限で弾かれる。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddToCartInput) (CartItemView, error) {
	if userID == "" {
		return CartItemView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID == "" {
		return CartItemView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartItemView{}, wrapHTTPError(http.StatusBadRequest, ErrInvalidQuantity)
	}

	product, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemView{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !product.IsActive {
		return CartItemView{}, wrapHTTPError(http.StatusConflict, ErrProductUnavailable)
	}

	variant, err := ResolveVariant(&product, in.SelectedAttributes)
	if errors.Is(err, ErrEmptySelection) {
		return CartItemView{}, wrapHTTPError(http.StatusBadRequest, err)
	}
	if errors.Is(err, ErrNoMatchingVariant) {
		return CartItemView{}, wrapHTTPError(http.StatusNotFound, err)
	}
	if errors.Is(err, ErrVariantInactive) {
		return CartItemView{}, wrapHTTPError(http.StatusConflict, err)
	}
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//既存明細があれば累積数量で在庫判定する
	requested := in.Quantity
	existing, err := u.cartItemRepo.FindByCartAndVariant(ctx, cart.ID, variant.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err == nil {
		requested += existing.Quantity
	}

	if !variant.HasEnoughStock(requested) {
		u.logger.Info("cart add rejected: insufficient stock",
			zap.String("variant_id", variant.ID),
			zap.Int("requested", requested),
			zap.Int("available", variant.Stock),
		)
		return CartItemView{}, wrapHTTPError(http.StatusConflict, &InsufficientStockError{Available: variant.Stock})
	}

	if err := u.cartItemRepo.UpsertByCartAndVariant(ctx, cart.ID, variant.ID, in.Quantity); err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.FindByCartAndVariant(ctx, cart.ID, variant.ID)
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toCartItemView(item), nil
}

// 数量変更。在庫判定は絶対数量（差分ではない）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID string, cartItemID string, quantity int) (CartItemView, error) {
	if userID == "" {
		return CartItemView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if quantity < 1 {
		return CartItemView{}, wrapHTTPError(http.StatusBadRequest, ErrInvalidQuantity)
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemView{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartItemView{}, wrapHTTPError(http.StatusForbidden, ErrNotOwner)
	}

	if item.Variant.Product == nil || !item.Variant.Product.IsActive || !item.Variant.IsActive {
		return CartItemView{}, wrapHTTPError(http.StatusConflict, ErrProductUnavailable)
	}

	if !item.Variant.HasEnoughStock(quantity) {
		return CartItemView{}, wrapHTTPError(http.StatusConflict, &InsufficientStockError{Available: item.Variant.Stock})
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemView{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item.Quantity = quantity
	return u.toCartItemView(item), nil
}

// 明細削除
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID string, cartItemID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := u.cartItemRepo.FindByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return wrapHTTPError(http.StatusForbidden, ErrNotOwner)
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 全明細を削除。空カートでも成功する。
func (u *CartUsecase) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		//カート未作成なら消すものが無い
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByCartID(ctx, cart.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// GetCart はショップ単位に集計したビューを返す（読み取り専用）。
// ショップの並びは明細の追加順を保つ。同じカート状態からは常に同じビューになる。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartView(items), nil
}

// ショップ単位にまとめる。グループの順序は明細の出現順。
func (u *CartUsecase) buildCartView(items []model.CartItem) CartView {
	view := CartView{ShopCarts: []ShopCartView{}}

	indexByShop := map[string]int{}

	for _, item := range items {
		if item.Variant.Product == nil || item.Variant.Product.Shop == nil {
			continue
		}
		shop := item.Variant.Product.Shop

		idx, ok := indexByShop[shop.ID]
		if !ok {
			idx = len(view.ShopCarts)
			indexByShop[shop.ID] = idx
			view.ShopCarts = append(view.ShopCarts, ShopCartView{
				ShopID:   shop.ID,
				ShopName: shop.BrandName,
				Items:    []CartItemView{},
			})
		}

		iv := u.toCartItemView(item)

		sc := &view.ShopCarts[idx]
		sc.Items = append(sc.Items, iv)
		sc.ShopTotal += iv.SubTotal
		sc.ItemCount += item.Quantity

		view.TotalPrice += iv.SubTotal
		view.TotalItems += item.Quantity
	}

	view.ShopCount = len(view.ShopCarts)
	return view
}

func (u *CartUsecase) toCartItemView(item model.CartItem) CartItemView {
	iv := CartItemView{
		ID:                 item.ID,
		VariantID:          item.VariantID,
		VariantName:        item.Variant.SKU,
		SelectedAttributes: item.Variant.Signature(),
		Quantity:           item.Quantity,
	}

	if p := item.Variant.Product; p != nil {
		iv.ProductID = p.ID
		iv.Name = p.Name
		iv.UnitPrice = p.Price
		iv.Picture = p.Picture
		if p.Shop != nil {
			iv.ShopName = p.Shop.BrandName
		}
	}

	iv.SubTotal = iv.UnitPrice * float64(item.Quantity)
	return iv
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// カタログ側の業務ロジック（商品・バリアント・在庫補充）。
type ProductUsecase struct {
	productRepo   repo.ProductRepository
	variantRepo   repo.VariantRepository
	stockRepo     repo.StockRepository
	attributeRepo repo.AttributeRepository
	shopRepo      repo.ShopRepository
	categoryRepo  repo.CategoryRepository
	logger        *zap.Logger
}

func NewProductUsecase(
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	stockRepo repo.StockRepository,
	attributeRepo repo.AttributeRepository,
	shopRepo repo.ShopRepository,
	categoryRepo repo.CategoryRepository,
	logger *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		stockRepo:     stockRepo,
		attributeRepo: attributeRepo,
		shopRepo:      shopRepo,
		categoryRepo:  categoryRepo,
		logger:        logger,
	}
}

type ListProductsInput struct {
	Page  int
	Limit int
	Q     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 公開一覧
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     in.Q,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 商品詳細（バリアント・属性込み）。非公開は存在しない扱い。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

type CreateProductInput struct {
	ShopID      string
	CategoryID  string
	Name        string
	Description string
	Picture     string
	Price       float64
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, userID string, in CreateProductInput) (model.Product, error) {
	if userID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	shop, err := u.shopRepo.FindByID(ctx, in.ShopID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if shop.OwnerID != userID {
		return model.Product{}, wrapHTTPError(http.StatusForbidden, ErrNotOwner)
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Picture:     in.Picture,
		Price:       in.Price,
		IsActive:    true,
		CategoryID:  in.CategoryID,
		ShopID:      in.ShopID,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

type CreateVariantInput struct {
	ProductID  string
	SKU        string
	Stock      int
	Attributes map[string]string
}

// CreateVariant はバリアントを属性値ごと作成する。
// 同じ商品の有効バリアントに同一シグネチャがあれば拒否する。
// 解決（ResolveVariant）が走査順に依存しないのはこの一意性があるから。
func (u *ProductUsecase) CreateVariant(ctx context.Context, userID string, in CreateVariantInput) (model.Variant, error) {
	if userID == "" {
		return model.Variant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return model.Variant{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}
	if in.Stock < 0 {
		return model.Variant{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	if len(in.Attributes) == 0 {
		return model.Variant{}, wrapHTTPError(http.StatusBadRequest, ErrEmptySelection)
	}

	product, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Variant{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Variant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	shop, err := u.shopRepo.FindByID(ctx, product.ShopID)
	if err != nil {
		return model.Variant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if shop.OwnerID != userID {
		return model.Variant{}, wrapHTTPError(http.StatusForbidden, ErrNotOwner)
	}

	//シグネチャを正規化して既存の有効バリアントと突き合わせる
	newSig := make(map[string]string, len(in.Attributes))
	for name, value := range in.Attributes {
		newSig[strings.ToLower(strings.TrimSpace(name))] = value
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if !v.IsActive {
			continue
		}
		if signatureEqual(v.Signature(), newSig) {
			return model.Variant{}, wrapHTTPError(http.StatusConflict, ErrDuplicateSignature)
		}
	}

	variant := model.Variant{
		ID:        uuid.NewString(),
		SKU:       strings.TrimSpace(in.SKU),
		Stock:     in.Stock,
		IsActive:  true,
		ProductID: product.ID,
	}

	for name, value := range in.Attributes {
		attr, err := u.getOrCreateAttribute(ctx, name)
		if err != nil {
			return model.Variant{}, err
		}
		variant.AttributeValues = append(variant.AttributeValues, model.AttributeValue{
			ID:          uuid.NewString(),
			Value:       value,
			VariantID:   variant.ID,
			AttributeID: attr.ID,
			Attribute:   attr,
		})
	}

	created, err := u.variantRepo.Create(ctx, variant)
	if err != nil {
		return model.Variant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("variant created",
		zap.String("product_id", product.ID),
		zap.String("sku", created.SKU),
	)
	return created, nil
}

// バリアントの有効/無効切り替え
func (u *ProductUsecase) SetVariantActive(ctx context.Context, userID string, variantID string, active bool) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.checkVariantOwnership(ctx, userID, variantID); err != nil {
		return err
	}

	if err := u.variantRepo.SetActive(ctx, variantID, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "variant not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 補充。上限なしの無条件加算。
func (u *ProductUsecase) Restock(ctx context.Context, userID string, variantID string, qty int) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if qty < 1 {
		return wrapHTTPError(http.StatusBadRequest, ErrInvalidQuantity)
	}

	if err := u.checkVariantOwnership(ctx, userID, variantID); err != nil {
		return err
	}

	if err := u.stockRepo.IncreaseStock(ctx, variantID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "variant not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("stock increased",
		zap.String("variant_id", variantID),
		zap.Int("qty", qty),
	)
	return nil
}

func (u *ProductUsecase) checkVariantOwnership(ctx context.Context, userID string, variantID string) error {
	v, err := u.variantRepo.FindByID(ctx, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	shop, err := u.shopRepo.FindByID(ctx, p.ShopID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if shop.OwnerID != userID {
		return wrapHTTPError(http.StatusForbidden, ErrNotOwner)
	}
	return nil
}

func (u *ProductUsecase) getOrCreateAttribute(ctx context.Context, name string) (model.Attribute, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.Attribute{}, NewHTTPError(http.StatusBadRequest, "invalid attribute name")
	}

	attr, err := u.attributeRepo.FindByName(ctx, trimmed)
	if err == nil {
		return attr, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Attribute{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.attributeRepo.Create(ctx, model.Attribute{
		ID:   uuid.NewString(),
		Name: trimmed,
		Type: "text",
	})
	if errors.Is(err, repo.ErrDuplicateAttributeName) {
		// 同時作成で先を越されたら既存行を使う
		attr, err := u.attributeRepo.FindByName(ctx, trimmed)
		if err != nil {
			return model.Attribute{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return attr, nil
	}
	if err != nil {
		return model.Attribute{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func signatureEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type productUsecaseMocks struct {
	productRepo   *ProductRepoMock
	variantRepo   *VariantRepoMock
	stockRepo     *StockRepoMock
	attributeRepo *AttributeRepoMock
	shopRepo      *ShopRepoMock
	categoryRepo  *CategoryRepoMock
}

func newProductUsecase() (*usecase.ProductUsecase, productUsecaseMocks) {
	m := productUsecaseMocks{
		productRepo:   new(ProductRepoMock),
		variantRepo:   new(VariantRepoMock),
		stockRepo:     new(StockRepoMock),
		attributeRepo: new(AttributeRepoMock),
		shopRepo:      new(ShopRepoMock),
		categoryRepo:  new(CategoryRepoMock),
	}
	uc := usecase.NewProductUsecase(
		m.productRepo, m.variantRepo, m.stockRepo,
		m.attributeRepo, m.shopRepo, m.categoryRepo,
		zap.NewNop(),
	)
	return uc, m
}

func TestProductUsecase_ListPublicProducts_InvalidPage(t *testing.T) {
	uc, _ := newProductUsecase()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_ListPublicProducts_InvalidLimit(t *testing.T) {
	uc, _ := newProductUsecase()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 101})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_ListPublicProducts_Success(t *testing.T) {
	uc, m := newProductUsecase()

	q := repo.ProductListQuery{Page: 1, Limit: 20, Q: "shirt"}
	m.productRepo.On("ListPublic", mock.Anything, q).
		Return([]model.Product{{ID: "p1", Name: "T-Shirt", IsActive: true}}, int64(1), nil)

	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 20, Q: "shirt"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)

	m.productRepo.AssertExpectations(t)
}

// 非公開商品は存在しない扱い
func TestProductUsecase_GetProductDetail_InactiveHidden(t *testing.T) {
	uc, m := newProductUsecase()

	m.productRepo.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", IsActive: false}, nil)

	_, err := uc.GetProductDetail(context.Background(), "p1")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_CreateProduct_NotOwner(t *testing.T) {
	uc, m := newProductUsecase()

	m.shopRepo.On("FindByID", mock.Anything, "s1").
		Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)

	_, err := uc.CreateProduct(context.Background(), "intrus", usecase.CreateProductInput{
		ShopID: "s1", CategoryID: "cat1", Name: "T-Shirt", Price: 10,
	})

	assertHTTPStatus(t, err, http.StatusForbidden)
	assert.ErrorIs(t, err, usecase.ErrNotOwner)
	m.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_Success(t *testing.T) {
	uc, m := newProductUsecase()

	m.shopRepo.On("FindByID", mock.Anything, "s1").
		Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)
	m.categoryRepo.On("FindByID", mock.Anything, "cat1").
		Return(model.Category{ID: "cat1", Name: "Vêtements"}, nil)
	m.productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "T-Shirt" && p.ShopID == "s1" && p.IsActive
	})).Return(model.Product{ID: "p1", Name: "T-Shirt"}, nil)

	created, err := uc.CreateProduct(context.Background(), "owner1", usecase.CreateProductInput{
		ShopID: "s1", CategoryID: "cat1", Name: " T-Shirt ", Price: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "p1", created.ID)

	m.productRepo.AssertExpectations(t)
}

// 同じ商品の有効バリアントと同一シグネチャは拒否（大小・空白の差は無視）
func TestProductUsecase_CreateVariant_DuplicateSignature(t *testing.T) {
	uc, m := newProductUsecase()

	existing := buildVariant("v1", "TS-RED-M", 5, true, map[string]string{"Couleur": "Rouge", "Taille": "M"})
	product := model.Product{ID: "p1", ShopID: "s1", IsActive: true, Variants: []model.Variant{existing}}

	m.productRepo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)

	_, err := uc.CreateVariant(context.Background(), "owner1", usecase.CreateVariantInput{
		ProductID:  "p1",
		SKU:        "TS-RED-M-2",
		Stock:      3,
		Attributes: map[string]string{" couleur ": "Rouge", "TAILLE": "M"},
	})

	assertHTTPStatus(t, err, http.StatusConflict)
	assert.ErrorIs(t, err, usecase.ErrDuplicateSignature)
	m.variantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 無効化済みバリアントのシグネチャは再利用できる
func TestProductUsecase_CreateVariant_InactiveSignatureReusable(t *testing.T) {
	uc, m := newProductUsecase()

	retired := buildVariant("v1", "TS-RED-M", 5, false, map[string]string{"Couleur": "Rouge", "Taille": "M"})
	product := model.Product{ID: "p1", ShopID: "s1", IsActive: true, Variants: []model.Variant{retired}}

	m.productRepo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)
	m.attributeRepo.On("FindByName", mock.Anything, "Couleur").
		Return(model.Attribute{ID: "a1", Name: "Couleur"}, nil)
	m.attributeRepo.On("FindByName", mock.Anything, "Taille").
		Return(model.Attribute{ID: "a2", Name: "Taille"}, nil)
	m.variantRepo.On("Create", mock.Anything, mock.MatchedBy(func(v model.Variant) bool {
		return v.SKU == "TS-RED-M-2" && v.Stock == 3 && v.IsActive && len(v.AttributeValues) == 2
	})).Return(model.Variant{ID: "v2", SKU: "TS-RED-M-2"}, nil)

	created, err := uc.CreateVariant(context.Background(), "owner1", usecase.CreateVariantInput{
		ProductID:  "p1",
		SKU:        "TS-RED-M-2",
		Stock:      3,
		Attributes: map[string]string{"Couleur": "Rouge", "Taille": "M"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "v2", created.ID)

	m.variantRepo.AssertExpectations(t)
}

// 未知の属性名は作成される
func TestProductUsecase_CreateVariant_CreatesMissingAttribute(t *testing.T) {
	uc, m := newProductUsecase()

	product := model.Product{ID: "p1", ShopID: "s1", IsActive: true}

	m.productRepo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)
	m.attributeRepo.On("FindByName", mock.Anything, "Motif").
		Return(model.Attribute{}, repo.ErrNotFound)
	m.attributeRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.Attribute) bool {
		return a.Name == "Motif" && a.Type == "text"
	})).Return(model.Attribute{ID: "a9", Name: "Motif", Type: "text"}, nil)
	m.variantRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Variant")).
		Return(model.Variant{ID: "v9", SKU: "MUG-01"}, nil)

	_, err := uc.CreateVariant(context.Background(), "owner1", usecase.CreateVariantInput{
		ProductID:  "p1",
		SKU:        "MUG-01",
		Stock:      1,
		Attributes: map[string]string{"Motif": "Chat"},
	})
	assert.NoError(t, err)

	m.attributeRepo.AssertExpectations(t)
}

func TestProductUsecase_CreateVariant_AttributeCreateRaceLoserReusesRow(t *testing.T) {
	uc, m := newProductUsecase()

	product := model.Product{ID: "p1", ShopID: "s1", IsActive: true}
	existing := model.Attribute{ID: "a1", Name: "Motif", Type: "text"}

	m.productRepo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)

	//検索時点では無く、INSERTで同名（大小無視）の先行作成に負ける
	m.attributeRepo.On("FindByName", mock.Anything, "Motif").
		Return(model.Attribute{}, repo.ErrNotFound).Once()
	m.attributeRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Attribute")).
		Return(model.Attribute{}, repo.ErrDuplicateAttributeName).Once()
	m.attributeRepo.On("FindByName", mock.Anything, "Motif").
		Return(existing, nil).Once()

	m.variantRepo.On("Create", mock.Anything, mock.MatchedBy(func(v model.Variant) bool {
		return len(v.AttributeValues) == 1 && v.AttributeValues[0].AttributeID == "a1"
	})).Return(model.Variant{ID: "v9", SKU: "MUG-01"}, nil)

	_, err := uc.CreateVariant(context.Background(), "owner1", usecase.CreateVariantInput{
		ProductID:  "p1",
		SKU:        "MUG-01",
		Stock:      1,
		Attributes: map[string]string{"Motif": "Chat"},
	})
	assert.NoError(t, err)

	m.attributeRepo.AssertExpectations(t)
}

func TestProductUsecase_CreateVariant_EmptyAttributes(t *testing.T) {
	uc, _ := newProductUsecase()

	_, err := uc.CreateVariant(context.Background(), "owner1", usecase.CreateVariantInput{
		ProductID: "p1", SKU: "X", Stock: 1,
	})

	assertHTTPStatus(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, usecase.ErrEmptySelection)
}

func TestProductUsecase_Restock_InvalidQuantity(t *testing.T) {
	uc, _ := newProductUsecase()

	err := uc.Restock(context.Background(), "owner1", "v1", 0)

	assertHTTPStatus(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, usecase.ErrInvalidQuantity)
}

func TestProductUsecase_Restock_Success(t *testing.T) {
	uc, m := newProductUsecase()

	m.variantRepo.On("FindByID", mock.Anything, "v1").
		Return(model.Variant{ID: "v1", ProductID: "p1"}, nil)
	m.productRepo.On("FindByID", mock.Anything, "p1").
		Return(model.Product{ID: "p1", ShopID: "s1"}, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").
		Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)
	m.stockRepo.On("IncreaseStock", mock.Anything, "v1", 10).Return(nil)

	err := uc.Restock(context.Background(), "owner1", "v1", 10)
	assert.NoError(t, err)

	m.stockRepo.AssertExpectations(t)
}

func TestProductUsecase_SetVariantActive_NotOwner(t *testing.T) {
	uc, m := newProductUsecase()

	m.variantRepo.On("FindByID", mock.Anything, "v1").
		Return(model.Variant{ID: "v1", ProductID: "p1"}, nil)
	m.productRepo.On("FindByID", mock.Anything, "p1").
		Return(model.Product{ID: "p1", ShopID: "s1"}, nil)
	m.shopRepo.On("FindByID", mock.Anything, "s1").
		Return(model.Shop{ID: "s1", OwnerID: "owner1"}, nil)

	err := uc.SetVariantActive(context.Background(), "intrus", "v1", false)

	assertHTTPStatus(t, err, http.StatusForbidden)
	m.variantRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

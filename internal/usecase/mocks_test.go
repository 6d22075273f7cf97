package usecase_test

import (
	"context"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListByShopID(ctx context.Context, shopID string) ([]model.Product, error) {
	args := m.Called(ctx, shopID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, id string) (model.Variant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(model.Variant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) ListByProductID(ctx context.Context, productID string) ([]model.Variant, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.Variant)
	return items, args.Error(1)
}

func (m *VariantRepoMock) Create(ctx context.Context, v model.Variant) (model.Variant, error) {
	args := m.Called(ctx, v)
	created, _ := args.Get(0).(model.Variant)
	return created, args.Error(1)
}

func (m *VariantRepoMock) SetActive(ctx context.Context, variantID string, active bool) error {
	args := m.Called(ctx, variantID, active)
	return args.Error(0)
}

type StockRepoMock struct{ mock.Mock }

func (m *StockRepoMock) DecreaseStockIfEnough(ctx context.Context, variantID string, qty int) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *StockRepoMock) IncreaseStock(ctx context.Context, variantID string, qty int) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID string) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndVariant(ctx context.Context, cartID string, variantID string) (model.CartItem, error) {
	args := m.Called(ctx, cartID, variantID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndVariant(ctx context.Context, cartID string, variantID string, addQty int) error {
	args := m.Called(ctx, cartID, variantID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID string, qty int) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID string) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByIDs(ctx context.Context, cartItemIDs []string) error {
	args := m.Called(ctx, cartItemIDs)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByCartID(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID string, userID string) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type CommandeRepoMock struct{ mock.Mock }

func (m *CommandeRepoMock) Create(ctx context.Context, c model.Commande) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CommandeRepoMock) FindByID(ctx context.Context, id string) (model.Commande, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Commande)
	return c, args.Error(1)
}

func (m *CommandeRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Commande, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Commande)
	return items, args.Error(1)
}

func (m *CommandeRepoMock) ListByShopID(ctx context.Context, shopID string) ([]model.Commande, error) {
	args := m.Called(ctx, shopID)
	items, _ := args.Get(0).([]model.Commande)
	return items, args.Error(1)
}

func (m *CommandeRepoMock) Update(ctx context.Context, c model.Commande) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, commandeID string, items []model.OrderItem) error {
	args := m.Called(ctx, commandeID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByCommandeID(ctx context.Context, commandeID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, commandeID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ShopRepoMock struct{ mock.Mock }

func (m *ShopRepoMock) FindByID(ctx context.Context, id string) (model.Shop, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *ShopRepoMock) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *ShopRepoMock) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Shop)
	return created, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) FindByID(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

type AttributeRepoMock struct{ mock.Mock }

func (m *AttributeRepoMock) FindByName(ctx context.Context, name string) (model.Attribute, error) {
	args := m.Called(ctx, name)
	a, _ := args.Get(0).(model.Attribute)
	return a, args.Error(1)
}

func (m *AttributeRepoMock) List(ctx context.Context) ([]model.Attribute, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Attribute)
	return items, args.Error(1)
}

func (m *AttributeRepoMock) Create(ctx context.Context, a model.Attribute) (model.Attribute, error) {
	args := m.Called(ctx, a)
	created, _ := args.Get(0).(model.Attribute)
	return created, args.Error(1)
}

// =====================
// Txまわり
// =====================

// TxReposMockはトランザクション内で配られるrepo束。
type TxReposMock struct {
	CommandeRepo  *CommandeRepoMock
	OrderItemRepo *OrderItemRepoMock
	CartRepo      *CartRepoMock
	CartItemRepo  *CartItemRepoMock
	VariantRepo   *VariantRepoMock
	StockRepo     *StockRepoMock
	ProductRepo   *ProductRepoMock
	ShopRepo      *ShopRepoMock
}

func NewTxReposMock() *TxReposMock {
	return &TxReposMock{
		CommandeRepo:  new(CommandeRepoMock),
		OrderItemRepo: new(OrderItemRepoMock),
		CartRepo:      new(CartRepoMock),
		CartItemRepo:  new(CartItemRepoMock),
		VariantRepo:   new(VariantRepoMock),
		StockRepo:     new(StockRepoMock),
		ProductRepo:   new(ProductRepoMock),
		ShopRepo:      new(ShopRepoMock),
	}
}

func (r *TxReposMock) Commandes() repo.CommandeRepository   { return r.CommandeRepo }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.OrderItemRepo }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.CartRepo }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.CartItemRepo }
func (r *TxReposMock) Variants() repo.VariantRepository     { return r.VariantRepo }
func (r *TxReposMock) Stock() repo.StockRepository          { return r.StockRepo }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.ProductRepo }
func (r *TxReposMock) Shops() repo.ShopRepository           { return r.ShopRepo }

// TxManagerMockはfnをそのまま実行する。commit/rollbackの観察は
// fnの戻り値（エラーかどうか）で行う。
type TxManagerMock struct {
	Repos *TxReposMock
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

// =====================
// Helpers
// =====================

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

// 属性名→値からバリアントを組み立てる
func buildVariant(id string, sku string, stock int, active bool, attrs map[string]string) model.Variant {
	v := model.Variant{
		ID:       id,
		SKU:      sku,
		Stock:    stock,
		IsActive: active,
	}
	for name, value := range attrs {
		v.AttributeValues = append(v.AttributeValues, model.AttributeValue{
			Value:     value,
			Attribute: model.Attribute{Name: name},
		})
	}
	return v
}

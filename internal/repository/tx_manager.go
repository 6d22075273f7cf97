package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Commandes() CommandeRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Variants() VariantRepository
	Stock() StockRepository
	Products() ProductRepository
	Shops() ShopRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

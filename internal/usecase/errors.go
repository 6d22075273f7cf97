package usecase

import (
	"errors"
	"fmt"

	"marketplace/internal/domain/model"
)

// HandlerにHTTPステータスを伝えるためのエラー。
// Err に元の型付きエラーを保持し、errors.Is / errors.As で辿れるようにする。
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 型付きエラーをHTTPステータス付きで包む
func wrapHTTPError(status int, err error) error {
	return &HTTPError{
		Status:  status,
		Message: err.Error(),
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 競合系・所有権系の型付きエラー。
// 握りつぶしや自動丸め（数量クランプ等）はしない。
var (
	//選択に一致するシグネチャのバリアントが存在しない
	ErrNoMatchingVariant = errors.New("no matching variant")
	//構造上は一致するが無効化されている（一時的に買えない）
	ErrVariantInactive = errors.New("variant inactive")
	//親の商品が無効
	ErrProductUnavailable = errors.New("product unavailable")
	//指定ショップの明細がカートに無い
	ErrEmptyShopCart = errors.New("no items from this shop in cart")
	//他ユーザーの明細・注文への操作
	ErrNotOwner = errors.New("not owner")
	//数量が1未満
	ErrInvalidQuantity = errors.New("invalid quantity")
	//属性の選択が空
	ErrEmptySelection = errors.New("empty attribute selection")
	//同一商品の有効バリアントに同じシグネチャが既にある
	ErrDuplicateSignature = errors.New("duplicate variant signature")
)

// 在庫不足。利用可能数を添えて返し、呼び出し側に訂正させる。
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d", e.Available)
}

// 状態機械で許可されない遷移。
type InvalidTransitionError struct {
	From model.EtatCommande
	To   model.EtatCommande
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

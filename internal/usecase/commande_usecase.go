package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 注文番号の再生成を試す回数。order_number の一意制約に
// 当たったときだけ再試行する。
const orderNumberAttempts = 3

// 注文の業務ロジック。カート→注文の変換は1トランザクションで行い、
// 在庫検証・価格スナップショット・カート明細の削除をまとめて確定する。
type CommandeUsecase struct {
	tx     repo.TransactionManager
	logger *zap.Logger
}

func NewCommandeUsecase(tx repo.TransactionManager, logger *zap.Logger) *CommandeUsecase {
	return &CommandeUsecase{tx: tx, logger: logger}
}

type CreateCommandeInput struct {
	ShopID             string
	DeliveryAddress    string
	DeliveryPostalCode string
}

type OrderItemView struct {
	ID          string  `json:"id"`
	VariantID   string  `json:"variant_id"`
	ProductName string  `json:"product_name"`
	VariantSKU  string  `json:"variant_sku"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	SubTotal    float64 `json:"sub_total"`
}

type CommandeView struct {
	ID                 string             `json:"id"`
	OrderNumber        string             `json:"order_number"`
	UserID             string             `json:"user_id"`
	ShopID             string             `json:"shop_id"`
	ShopName           string             `json:"shop_name"`
	DeliveryAddress    string             `json:"delivery_address"`
	DeliveryPostalCode string             `json:"delivery_postal_code"`
	DeliveryFee        float64            `json:"delivery_fee"`
	Subtotal           float64            `json:"subtotal"`
	Total              float64            `json:"total"`
	Etat               model.EtatCommande `json:"etat"`
	TotalItemCount     int                `json:"total_item_count"`
	UniqueItemCount    int                `json:"unique_item_count"`
	CreatedAt          time.Time          `json:"created_at"`
	ShippedAt          *time.Time         `json:"shipped_at"`
	DeliveredAt        *time.Time         `json:"delivered_at"`
	Items              []OrderItemView    `json:"items"`
}

// CreateFromCart はカートのうち指定ショップ分を注文に変換する。
// 途中で失敗したらトランスアクションごと巻き戻り、カートには触れない。
// 他ショップの明細はそのまま残る（ショップごとに独立して確定できる）。
func (u *CommandeUsecase) CreateFromCart(ctx context.Context, userID string, in CreateCommandeInput) (CommandeView, error) {
	if userID == "" {
		return CommandeView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ShopID == "" {
		return CommandeView{}, NewHTTPError(http.StatusBadRequest, "invalid shop_id")
	}
	if in.DeliveryAddress == "" {
		return CommandeView{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_address")
	}
	if in.DeliveryPostalCode == "" {
		return CommandeView{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_postal_code")
	}

	var out CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		shop, err := r.Shops().FindByID(ctx, in.ShopID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "shop not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return wrapHTTPError(http.StatusConflict, ErrEmptyShopCart)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//このショップの明細だけを対象にする
		shopItems := make([]model.CartItem, 0, len(items))
		for _, item := range items {
			if item.Variant.Product != nil && item.Variant.Product.ShopID == in.ShopID {
				shopItems = append(shopItems, item)
			}
		}
		if len(shopItems) == 0 {
			return wrapHTTPError(http.StatusConflict, ErrEmptyShopCart)
		}

		//在庫の検証と減算、価格スナップショット
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(shopItems))
		consumedIDs := make([]string, 0, len(shopItems))
		var subtotal float64

		for _, item := range shopItems {
			ok, err := r.Stock().DecreaseStockIfEnough(ctx, item.VariantID, item.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				v, err := r.Variants().FindByID(ctx, item.VariantID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				u.logger.Info("checkout rejected: insufficient stock",
					zap.String("variant_id", item.VariantID),
					zap.Int("requested", item.Quantity),
					zap.Int("available", v.Stock),
				)
				return wrapHTTPError(http.StatusConflict, &InsufficientStockError{Available: v.Stock})
			}

			//単価はこの瞬間の商品価格。以後の価格変更は注文に影響しない
			unitPrice := item.Variant.Product.Price
			orderItems = append(orderItems, model.OrderItem{
				ID:                  uuid.NewString(),
				VariantID:           item.VariantID,
				Quantity:            item.Quantity,
				UnitPrice:           unitPrice,
				ProductNameSnapshot: item.Variant.Product.Name,
				VariantSKUSnapshot:  item.Variant.SKU,
				CreatedAt:           now,
			})
			subtotal += unitPrice * float64(item.Quantity)
			consumedIDs = append(consumedIDs, item.ID)
		}

		commande := model.Commande{
			ID:                 uuid.NewString(),
			UserID:             userID,
			ShopID:             shop.ID,
			DeliveryAddress:    in.DeliveryAddress,
			DeliveryPostalCode: in.DeliveryPostalCode,
			DeliveryFee:        shop.DeliveryFee,
			Total:              subtotal + shop.DeliveryFee,
			Etat:               model.EtatPending,
			CreatedAt:          now,
		}

		//番号衝突は一意制約で検知して振り直す
		created := false
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			commande.OrderNumber = generateOrderNumber(now)
			err = r.Commandes().Create(ctx, commande)
			if errors.Is(err, repo.ErrDuplicateOrderNumber) {
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			created = true
			break
		}
		if !created {
			return NewHTTPError(http.StatusInternalServerError, "order number conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, commande.ID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//このショップの明細だけカートから取り除く
		if err := r.CartItems().DeleteByIDs(ctx, consumedIDs); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for i := range orderItems {
			orderItems[i].CommandeID = commande.ID
		}
		commande.OrderItems = orderItems
		out = toCommandeView(commande, shop)

		u.logger.Info("order created",
			zap.String("order_number", commande.OrderNumber),
			zap.String("user_id", userID),
			zap.String("shop_id", shop.ID),
			zap.Float64("total", commande.Total),
		)
		return nil
	})

	if err != nil {
		return CommandeView{}, err
	}
	return out, nil
}

// UpdateStatus は遷移表に従って状態を進める。操作できるのはショップの
// オーナーだけ。許可されない遷移は黙って矯正せず InvalidTransition で拒否する。
func (u *CommandeUsecase) UpdateStatus(ctx context.Context, actorUserID string, commandeID string, newEtat model.EtatCommande) (CommandeView, error) {
	if actorUserID == "" {
		return CommandeView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !newEtat.Valid() {
		return CommandeView{}, NewHTTPError(http.StatusBadRequest, "invalid etat")
	}

	var out CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		commande, err := r.Commandes().FindByID(ctx, commandeID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		shop, err := r.Shops().FindByID(ctx, commande.ShopID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if shop.OwnerID != actorUserID {
			return wrapHTTPError(http.StatusForbidden, ErrNotOwner)
		}

		if !commande.Etat.CanTransition(newEtat) {
			return wrapHTTPError(http.StatusConflict, &InvalidTransitionError{From: commande.Etat, To: newEtat})
		}

		now := time.Now()
		switch newEtat {
		case model.EtatShipped:
			commande.ShippedAt = &now
		case model.EtatDelivered:
			commande.DeliveredAt = &now
		}
		previous := commande.Etat
		commande.Etat = newEtat

		if err := r.Commandes().Update(ctx, commande); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toCommandeView(commande, shop)

		u.logger.Info("order status changed",
			zap.String("order_number", commande.OrderNumber),
			zap.String("from", string(previous)),
			zap.String("to", string(newEtat)),
		)
		return nil
	})

	if err != nil {
		return CommandeView{}, err
	}
	return out, nil
}

// Cancel は購入者またはショップオーナーによるキャンセル。
// PENDING / PROCESSING のときだけ成立する。在庫の戻しはここでは行わない
//（補充は別ワークフローの IncreaseStock 経路）。
func (u *CommandeUsecase) Cancel(ctx context.Context, userID string, commandeID string) (CommandeView, error) {
	if userID == "" {
		return CommandeView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		commande, err := r.Commandes().FindByID(ctx, commandeID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// ショップが消えていても購入者は自分の注文をキャンセルできる
		shop, err := r.Shops().FindByID(ctx, commande.ShopID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if commande.UserID != userID && shop.OwnerID != userID {
			return wrapHTTPError(http.StatusForbidden, ErrNotOwner)
		}

		if !commande.CanBeCancelled() {
			return wrapHTTPError(http.StatusConflict, &InvalidTransitionError{From: commande.Etat, To: model.EtatCancelled})
		}

		commande.Etat = model.EtatCancelled
		if err := r.Commandes().Update(ctx, commande); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toCommandeView(commande, shop)

		u.logger.Info("order cancelled",
			zap.String("order_number", commande.OrderNumber),
			zap.String("user_id", userID),
		)
		return nil
	})

	if err != nil {
		return CommandeView{}, err
	}
	return out, nil
}

// 自分の注文一覧（新しい順）
func (u *CommandeUsecase) ListUserOrders(ctx context.Context, userID string) ([]CommandeView, error) {
	if userID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		commandes, err := r.Commandes().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 同じショップを何度も引かない
		shops := make(map[string]model.Shop)
		outs = make([]CommandeView, 0, len(commandes))
		for _, c := range commandes {
			shop, ok := shops[c.ShopID]
			if !ok {
				shop, err = r.Shops().FindByID(ctx, c.ShopID)
				if err != nil && !errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				shops[c.ShopID] = shop
			}
			outs = append(outs, toCommandeView(c, shop))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// 注文詳細。他人の注文は「存在しない扱い」にする。
func (u *CommandeUsecase) GetOrder(ctx context.Context, userID string, commandeID string) (CommandeView, error) {
	if userID == "" {
		return CommandeView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		commande, err := r.Commandes().FindByID(ctx, commandeID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		shop, err := r.Shops().FindByID(ctx, commande.ShopID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if commande.UserID != userID && shop.OwnerID != userID {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		out = toCommandeView(commande, shop)
		return nil
	})

	if err != nil {
		return CommandeView{}, err
	}
	return out, nil
}

// ショップに入った注文の一覧（オーナー専用）
func (u *CommandeUsecase) ListShopOrders(ctx context.Context, userID string, shopID string) ([]CommandeView, error) {
	if userID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []CommandeView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		shop, err := r.Shops().FindByID(ctx, shopID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "shop not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if shop.OwnerID != userID {
			return wrapHTTPError(http.StatusForbidden, ErrNotOwner)
		}

		commandes, err := r.Commandes().ListByShopID(ctx, shopID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]CommandeView, 0, len(commandes))
		for _, c := range commandes {
			outs = append(outs, toCommandeView(c, shop))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// CMD-YYYYMMDD-NNNNN。衝突はDBの一意制約で拾って振り直す前提。
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("CMD-%s-%05d", now.Format("20060102"), rand.IntN(100000))
}

func toCommandeView(c model.Commande, shop model.Shop) CommandeView {
	items := make([]OrderItemView, 0, len(c.OrderItems))
	for _, it := range c.OrderItems {
		items = append(items, OrderItemView{
			ID:          it.ID,
			VariantID:   it.VariantID,
			ProductName: it.ProductNameSnapshot,
			VariantSKU:  it.VariantSKUSnapshot,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			SubTotal:    it.SubTotal(),
		})
	}

	return CommandeView{
		ID:                 c.ID,
		OrderNumber:        c.OrderNumber,
		UserID:             c.UserID,
		ShopID:             c.ShopID,
		ShopName:           shop.BrandName,
		DeliveryAddress:    c.DeliveryAddress,
		DeliveryPostalCode: c.DeliveryPostalCode,
		DeliveryFee:        c.DeliveryFee,
		Subtotal:           c.Subtotal(),
		Total:              c.Total,
		Etat:               c.Etat,
		TotalItemCount:     c.TotalItemCount(),
		UniqueItemCount:    c.UniqueItemCount(),
		CreatedAt:          c.CreatedAt,
		ShippedAt:          c.ShippedAt,
		DeliveredAt:        c.DeliveredAt,
		Items:              items,
	}
}

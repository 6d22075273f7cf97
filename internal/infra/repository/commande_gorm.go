package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type CommandeGormRepository struct {
	db *gorm.DB
}

func NewCommandeGormRepository(db *gorm.DB) *CommandeGormRepository {
	return &CommandeGormRepository{db: db}
}

func (r *CommandeGormRepository) Create(ctx context.Context, c model.Commande) error {
	// 外側のトランザクション内から呼ばれたときはSAVEPOINTになる。
	// unique違反(23505)で外側のtxごと中断状態(25P02)になると
	// 採番し直しのINSERTが通らなくなるため、試行ごとに巻き戻せるようにする
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&c).Error
	})
	if err == nil {
		return nil
	}

	// order_numberのunique違反は呼び出し側が採番し直せるよう区別する
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrDuplicateOrderNumber
	}
	return err
}

func (r *CommandeGormRepository) FindByID(ctx context.Context, id string) (model.Commande, error) {
	var c model.Commande

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ?", id).
		First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Commande{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Commande{}, err
	}
	return c, nil
}

func (r *CommandeGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Commande, error) {
	var commandes []model.Commande

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&commandes).Error
	if err != nil {
		return nil, err
	}
	return commandes, nil
}

func (r *CommandeGormRepository) ListByShopID(ctx context.Context, shopID string) ([]model.Commande, error) {
	var commandes []model.Commande

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&commandes).Error
	if err != nil {
		return nil, err
	}
	return commandes, nil
}

// 状態と配送日時だけ更新する
func (r *CommandeGormRepository) Update(ctx context.Context, c model.Commande) error {
	res := r.db.WithContext(ctx).
		Model(&model.Commande{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"etat":         c.Etat,
			"shipped_at":   c.ShippedAt,
			"delivered_at": c.DeliveredAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantGormRepository struct {
	db *gorm.DB
}

func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

func (r *VariantGormRepository) FindByID(ctx context.Context, id string) (model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).
		Preload("AttributeValues.Attribute").
		Where("id = ?", id).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Variant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Variant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) ListByProductID(ctx context.Context, productID string) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.db.WithContext(ctx).
		Preload("AttributeValues.Attribute").
		Where("product_id = ?", productID).
		Order("created_at asc").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// 属性値ごと作成する（gormのassociationで一括INSERT）
func (r *VariantGormRepository) Create(ctx context.Context, v model.Variant) (model.Variant, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return model.Variant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) SetActive(ctx context.Context, variantID string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ?", variantID).
		Update("is_active", active)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。負在庫は条件付きUPDATEで防ぐ。
func (r *StockGormRepository) DecreaseStockIfEnough(ctx context.Context, variantID string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 補充（無条件加算）
func (r *StockGormRepository) IncreaseStock(ctx context.Context, variantID string, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) FindByID(ctx context.Context, id string) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

func (r *ShopGormRepository) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

func (r *ShopGormRepository) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

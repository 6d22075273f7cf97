package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type AttributeGormRepository struct {
	db *gorm.DB
}

func NewAttributeGormRepository(db *gorm.DB) *AttributeGormRepository {
	return &AttributeGormRepository{db: db}
}

// 名前の大小は区別しない
func (r *AttributeGormRepository) FindByName(ctx context.Context, name string) (model.Attribute, error) {
	var a model.Attribute
	err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Attribute{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Attribute{}, err
	}
	return a, nil
}

func (r *AttributeGormRepository) List(ctx context.Context) ([]model.Attribute, error) {
	var attributes []model.Attribute
	if err := r.db.WithContext(ctx).Order("name asc").Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

func (r *AttributeGormRepository) Create(ctx context.Context, a model.Attribute) (model.Attribute, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		// 同名（大小無視）が同時に作られたときは負けた側に再検索させる
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Attribute{}, repo.ErrDuplicateAttributeName
		}
		return model.Attribute{}, err
	}
	return a, nil
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
)

// ショップとカテゴリのCRUD（薄い層）。
type ShopUsecase struct {
	shopRepo     repo.ShopRepository
	categoryRepo repo.CategoryRepository
}

func NewShopUsecase(shopRepo repo.ShopRepository, categoryRepo repo.CategoryRepository) *ShopUsecase {
	return &ShopUsecase{shopRepo: shopRepo, categoryRepo: categoryRepo}
}

type CreateShopInput struct {
	BrandName   string
	Description string
	LogoPicture string
	Address     string
	DeliveryFee float64
}

func (u *ShopUsecase) CreateShop(ctx context.Context, ownerID string, in CreateShopInput) (model.Shop, error) {
	if ownerID == "" {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.BrandName) == "" {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid brand_name")
	}
	if in.DeliveryFee < 0 {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_fee")
	}

	//1ユーザー1ショップ
	if _, err := u.shopRepo.FindByOwnerID(ctx, ownerID); err == nil {
		return model.Shop{}, NewHTTPError(http.StatusConflict, "shop already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.shopRepo.Create(ctx, model.Shop{
		ID:          uuid.NewString(),
		BrandName:   strings.TrimSpace(in.BrandName),
		Description: in.Description,
		LogoPicture: in.LogoPicture,
		Address:     in.Address,
		DeliveryFee: in.DeliveryFee,
		IsActive:    true,
		OwnerID:     ownerID,
	})
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ShopUsecase) GetShop(ctx context.Context, shopID string) (model.Shop, error) {
	shop, err := u.shopRepo.FindByID(ctx, shopID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return shop, nil
}

func (u *ShopUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *ShopUsecase) CreateCategory(ctx context.Context, name string, description string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

package handler

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /shops と /categories のHTTP
type ShopHandler struct {
	uc *usecase.ShopUsecase
}

// DI
func NewShopHandler(uc *usecase.ShopUsecase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

type CreateShopRequest struct {
	BrandName   string  `json:"brand_name"`
	Description string  `json:"description"`
	LogoPicture string  `json:"logo_picture"`
	Address     string  `json:"address"`
	DeliveryFee float64 `json:"delivery_fee"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ShopHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/shops/:id", h.detail)
	e.GET("/categories", h.listCategories)

	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/shops", h.create)
	g.POST("/categories", h.createCategory)
}

func (h *ShopHandler) detail(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	s, err := h.uc.GetShop(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *ShopHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.CreateShop(c.Request().Context(), userID, usecase.CreateShopInput{
		BrandName:   req.BrandName,
		Description: req.Description,
		LogoPicture: req.LogoPicture,
		Address:     req.Address,
		DeliveryFee: req.DeliveryFee,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, s)
}

func (h *ShopHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShopHandler) createCategory(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cat, err := h.uc.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, cat)
}

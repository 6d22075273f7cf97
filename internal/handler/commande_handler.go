package handler

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP
type CommandeHandler struct {
	uc *usecase.CommandeUsecase
}

// DI
func NewCommandeHandler(uc *usecase.CommandeUsecase) *CommandeHandler {
	return &CommandeHandler{uc: uc}
}

type CreateOrderRequest struct {
	ShopID             string `json:"shop_id"`
	DeliveryAddress    string `json:"delivery_address"`
	DeliveryPostalCode string `json:"delivery_postal_code"`
}

type UpdateOrderStatusRequest struct {
	Etat string `json:"etat"`
}

func (h *CommandeHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PATCH("/:id/status", h.updateStatus)
	g.POST("/:id/cancel", h.cancel)

	sg := e.Group("/shops/:shopId/orders")
	sg.Use(middleware.AuthJWT(cfg))
	sg.GET("", h.listShopOrders)
}

// カートの該当ショップ分を注文として確定
func (h *CommandeHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateFromCart(c.Request().Context(), userID, usecase.CreateCommandeInput{
		ShopID:             req.ShopID,
		DeliveryAddress:    req.DeliveryAddress,
		DeliveryPostalCode: req.DeliveryPostalCode,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CommandeHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CommandeHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ショップ側の状態遷移（処理中/発送/配達）
func (h *CommandeHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	etat := model.EtatCommande(req.Etat)
	if !etat.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid etat"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), userID, id, etat)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CommandeHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Cancel(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CommandeHandler) listShopOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	shopID := c.Param("shopId")
	if shopID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid shop id"})
	}

	out, err := h.uc.ListShopOrders(c.Request().Context(), userID, shopID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

package server

import (
	"marketplace/internal/config"
	"marketplace/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersは起動時に登録する全ハンドラ
type Handlers struct {
	Auth     *handler.AuthHandler
	Shop     *handler.ShopHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Commande *handler.CommandeHandler
}

func Start(cfg config.Config, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	h.Auth.RegisterRoutes(e)
	h.Shop.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Commande.RegisterRoutes(e, cfg)

	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}

	return e.Start(addr)
}

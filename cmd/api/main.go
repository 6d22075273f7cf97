package main

import (
	"log"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/handler"
	"marketplace/internal/infra/db"
	"marketplace/internal/infra/logger"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/server"
	"marketplace/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.GoEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Shop{},
		&model.Product{},
		&model.Attribute{},
		&model.Variant{},
		&model.AttributeValue{},
		&model.Cart{},
		&model.CartItem{},
		&model.Commande{},
		&model.OrderItem{},
	); err != nil {
		zlog.Fatal("migrate failed", zap.Error(err))
	}

	// 属性名は大文字小文字を区別せず一意。AutoMigrateは式インデックスを
	// 張れないため追加のDDLで補う
	if err := gormDB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_attributes_lower_name ON attributes (lower(name))",
	).Error; err != nil {
		zlog.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	attributeRepo := infraRepo.NewAttributeGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, []byte(cfg.JWTSecret))
	shopUC := usecase.NewShopUsecase(shopRepo, categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo, variantRepo, stockRepo, attributeRepo, shopRepo, categoryRepo, zlog)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo, zlog)
	commandeUC := usecase.NewCommandeUsecase(txManager, zlog)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Shop:     handler.NewShopHandler(shopUC),
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Commande: handler.NewCommandeHandler(commandeUC),
	}

	zlog.Info("starting server")
	if err := server.Start(cfg, handlers); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

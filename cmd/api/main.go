package main

import (
	"context"
	"log"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/infra/storage"
	"shop/internal/metrics"
	"shop/internal/payment"
	"shop/internal/server"
	"shop/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentEvent{},
		&model.Favorite{},
		&model.Review{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(gormDB)

	//外部決済クライアントとメトリクス
	payClient := payment.NewHTTPClient(cfg.PaymentAPIBaseURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	m := metrics.NewShopMetrics(prometheus.DefaultRegisterer)

	//Usecase生成
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo, categoryRepo, inventoryRepo, auditRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, productRepo, cartRepo, cartItemRepo, payClient, cfg.FrontendURL, m)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, orderItemRepo, auditRepo)
	paymentEventUC := usecase.NewPaymentEventUsecase(txManager, m)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, productRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo)

	// S3は未設定なら発行APIを503にする
	var presigner usecase.Presigner
	if cfg.S3Bucket != "" {
		p, err := storage.NewS3Presigner(context.Background(), cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKeyID, cfg.S3SecretAccessKey)
		if err != nil {
			log.Fatal(err)
		}
		presigner = p
	}
	uploadUC := usecase.NewUploadUsecase(presigner)

	//Server組み立て
	e := server.New(cfg)

	handler.NewProductHandler(productUC).RegisterRoutes(e)
	handler.NewAdminProductHandler(productUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewCategoryHandler(categoryUC).RegisterRoutes(e, cfg)
	handler.NewCartHandler(cartUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewCheckoutHandler(checkoutUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(orderUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewAdminOrderHandler(adminOrderUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewWebhookHandler(paymentEventUC, cfg.PaymentWebhookSecret).RegisterRoutes(e)
	handler.NewFavoriteHandler(favoriteUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewReviewHandler(reviewUC, customerUC).RegisterRoutes(e, cfg)
	handler.NewAnalyticsHandler(analyticsUC).RegisterRoutes(e, cfg)
	handler.NewUploadHandler(uploadUC).RegisterRoutes(e, cfg)
	handler.NewCustomerHandler(customerUC).RegisterRoutes(e, cfg)
	handler.NewAuthHandler(customerUC).RegisterRoutes(e, cfg)

	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/cart"
	"github.com/kitforge/kitshop/internal/catalog"
	"github.com/kitforge/kitshop/internal/config"
	"github.com/kitforge/kitshop/internal/db"
	"github.com/kitforge/kitshop/internal/order"
	"github.com/kitforge/kitshop/internal/payment"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := db.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unavailable", zap.Error(err))
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	payCfg := payment.Config{
		BaseURL:    cfg.GatewayBaseURL,
		MerchantID: cfg.GatewayMerchantID,
		PosID:      cfg.GatewayPosID,
		APIKey:     cfg.GatewayAPIKey,
		CRC:        cfg.GatewayCRC,
		Currency:   cfg.Currency,
		Country:    cfg.Country,
		ReturnURL:  base + "/payment/return",
		StatusURL:  base + "/payment/webhook",
	}

	orders := order.NewService(order.NewPGRepo(pool), logger)
	d := deps{
		log:        logger,
		kits:       catalog.NewPGRepo(pool),
		carts:      cart.NewRedisStore(rdb),
		orders:     orders,
		currency:   cfg.Currency,
		gateway:    payment.NewClient(payCfg, logger),
		reconciler: payment.NewReconciler(orders, payCfg, logger),
	}

	r := newRouter(d)
	logger.Info("shop-service listening", zap.String("addr", cfg.ShopSvcAddr))
	if err := r.Run(cfg.ShopSvcAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-prep-api/internal/api"
	"meal-prep-api/internal/core/price"
	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("instacart_api_key", config.MaskAPIKey(cfg.Pricing.InstacartAPIKey)),
		zap.String("kroger_client_id", config.MaskAPIKey(cfg.Pricing.KrogerClientID)),
		zap.String("default_zipcode", cfg.Pricing.DefaultZipcode),
	)

	// 初始化價格緩存：預設記憶體後端，可切換 Redis
	var priceCache price.Cache
	if cfg.Cache.Enabled {
		if cfg.Redis.Enabled {
			redisCache, err := price.NewRedisCache(&cfg.Cache, &cfg.Redis)
			if err != nil {
				common.LogFatal("Failed to connect to Redis cache", zap.Error(err))
			}
			priceCache = redisCache
		} else {
			memCache := price.NewMemoryCache(&cfg.Cache)
			if memCache == nil {
				common.LogFatal("Failed to initialize price cache")
			}
			priceCache = memCache
		}
		defer priceCache.Close()
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, priceCache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

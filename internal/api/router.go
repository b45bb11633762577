package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "meal-prep-api/internal/api/handlers/health"
	planHandler "meal-prep-api/internal/api/handlers/plan"
	priceHandler "meal-prep-api/internal/api/handlers/price"
	"meal-prep-api/internal/api/middleware"
	"meal-prep-api/internal/core/mealplan"
	"meal-prep-api/internal/core/price"
	"meal-prep-api/internal/core/shopping"
	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (2MB)，菜單與清單都是純 JSON
	maxBodySize = 2 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, priceCache price.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化服務
	catalog, err := mealplan.LoadCatalog(cfg.Plan.RecipesFile)
	if err != nil {
		common.LogError("Failed to load recipe catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	planner := mealplan.NewPlanner(catalog, 0)
	builder := shopping.NewListBuilder(catalog)

	priceSvc := price.NewService(&cfg.Pricing, priceCache,
		price.NewInstacartProvider(&cfg.Pricing),
		price.NewKrogerProvider(&cfg.Pricing),
	)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("redis_backend", cfg.Redis.Enabled),
		zap.String("recipes_file", cfg.Plan.RecipesFile),
		zap.String("instacart_key", config.MaskAPIKey(cfg.Pricing.InstacartAPIKey)),
		zap.String("kroger_client_id", config.MaskAPIKey(cfg.Pricing.KrogerClientID)),
	)

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
			c.Abort()
			return
		}
	})

	healthH := healthHandler.NewHandler(cfg, priceSvc)
	planH := planHandler.NewHandler(cfg, catalog, planner, builder)
	priceH := priceHandler.NewHandler(priceSvc)

	// 健康檢查路由
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	// API 路由組
	apiGroup := router.Group("/api/v1")
	{
		apiGroup.GET("/recipes", planH.ListRecipes)
		apiGroup.GET("/recipes/:name", planH.GetRecipe)
		apiGroup.GET("/stores", planH.ListStores)

		planGroup := apiGroup.Group("/plan")
		{
			planGroup.POST("/generate", planH.GeneratePlan)
		}

		listGroup := apiGroup.Group("/shopping-list")
		{
			listGroup.POST("", planH.GenerateShoppingList)
			listGroup.POST("/route", planH.RouteShoppingList)
		}

		priceGroup := apiGroup.Group("/price")
		{
			priceGroup.POST("/quote", priceH.Quote)
			priceGroup.POST("/shopping-list", priceH.ListPrices)
			priceGroup.DELETE("/cache", priceH.ClearCache)
			priceGroup.GET("/cache/stats", priceH.CacheStats)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

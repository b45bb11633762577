package plan

import (
	"errors"
	"net/http"
	"time"

	"meal-prep-api/internal/core/mealplan"
	"meal-prep-api/internal/core/shopping"
	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜單與購物清單處理器
type Handler struct {
	config  *config.Config
	catalog *mealplan.Catalog
	planner *mealplan.Planner
	builder *shopping.ListBuilder
}

// NewHandler 創建菜單與購物清單處理器
func NewHandler(cfg *config.Config, catalog *mealplan.Catalog, planner *mealplan.Planner, builder *shopping.ListBuilder) *Handler {
	return &Handler{
		config:  cfg,
		catalog: catalog,
		planner: planner,
		builder: builder,
	}
}

// GeneratePlanRequest 產生菜單計畫的請求
type GeneratePlanRequest struct {
	Days      int      `json:"days"`
	People    int      `json:"people"`
	StartDate string   `json:"start_date"` // YYYY-MM-DD，省略表示今天
	Excluded  []string `json:"excluded_ingredients"`
}

// ShoppingListRequest 從菜單計畫產生購物清單的請求
type ShoppingListRequest struct {
	MealPlan *common.MealPlan `json:"meal_plan" binding:"required"`
	Stores   []string         `json:"stores"`
	Budget   float64          `json:"budget"`
}

// RouteRequest 重新路由購物清單的請求
type RouteRequest struct {
	ShoppingList *common.ShoppingList `json:"shopping_list" binding:"required"`
	Stores       []string             `json:"stores" binding:"required"`
}

// ListRecipes 列出全部食譜
func (h *Handler) ListRecipes(c *gin.Context) {
	mealType := c.Query("meal_type")

	if mealType != "" {
		c.JSON(http.StatusOK, gin.H{
			"recipes": h.catalog.ListByMealType(mealType),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": h.catalog.All(),
	})
}

// GetRecipe 依名稱查詢單一食譜
func (h *Handler) GetRecipe(c *gin.Context) {
	name := c.Param("name")

	recipe, ok := h.catalog.Lookup(name)
	if !ok {
		respondError(c, common.ErrRecipeNotFound)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// ListStores 列出支持的商店
func (h *Handler) ListStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stores": h.catalog.List(),
	})
}

// GeneratePlan 產生多日菜單計畫
func (h *Handler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewError(common.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest, err))
		return
	}

	opts := mealplan.Options{
		Days:         req.Days,
		People:       req.People,
		LookbackDays: h.config.Plan.LookbackDays,
		Excluded:     req.Excluded,
	}
	if opts.Days == 0 {
		opts.Days = h.config.Plan.Days
	}
	if opts.People == 0 {
		opts.People = h.config.Plan.People
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondError(c, common.NewError(common.ErrCodeInvalidRequest, "start_date 必須是 YYYY-MM-DD", http.StatusBadRequest, err))
			return
		}
		opts.StartDate = start
	}

	plan, err := h.planner.Generate(opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// GenerateShoppingList 從菜單計畫產生購物清單
func (h *Handler) GenerateShoppingList(c *gin.Context) {
	var req ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewError(common.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest, err))
		return
	}

	budget := req.Budget
	if budget == 0 {
		budget = h.config.Plan.Budget
	}

	list := h.builder.Build(req.MealPlan, req.Stores, budget, h.config.Plan.DefaultStoreID)

	common.LogInfo("購物清單請求完成",
		zap.Int("total_items", list.TotalItems),
		zap.Int("stores", len(list.Stores)),
	)

	c.JSON(http.StatusOK, list)
}

// RouteShoppingList 把既有購物清單重新路由到多間商店
func (h *Handler) RouteShoppingList(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewError(common.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest, err))
		return
	}
	if len(req.Stores) == 0 {
		respondError(c, common.ErrNoStoresSelected)
		return
	}

	c.JSON(http.StatusOK, h.builder.Route(req.ShoppingList, req.Stores))
}

// respondError 依錯誤類型決定 HTTP 狀態碼
func respondError(c *gin.Context, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, common.ErrorResponse{
			Code:    customErr.Code,
			Message: customErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: err.Error(),
	})
}

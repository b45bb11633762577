package price

import (
	"errors"
	"net/http"

	priceService "meal-prep-api/internal/core/price"
	"meal-prep-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 價格查詢處理器
type Handler struct {
	priceSvc *priceService.Service
}

// NewHandler 創建價格查詢處理器
func NewHandler(priceSvc *priceService.Service) *Handler {
	return &Handler{priceSvc: priceSvc}
}

// QuoteRequest 單一品項報價請求
type QuoteRequest struct {
	Item    string `json:"item" binding:"required"`
	Store   string `json:"store" binding:"required"`
	Zipcode string `json:"zipcode"`
}

// ListPricesRequest 整份購物清單計價請求
type ListPricesRequest struct {
	ShoppingList *common.ShoppingList `json:"shopping_list" binding:"required"`
	Zipcode      string               `json:"zipcode"`
}

// Quote 查詢單一品項的報價
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	quote := h.priceSvc.GetPrice(c.Request.Context(), req.Item, req.Store, req.Zipcode)
	c.JSON(http.StatusOK, quote)
}

// ListPrices 為整份購物清單計價
func (h *Handler) ListPrices(c *gin.Context) {
	var req ListPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	pricing := h.priceSvc.GetShoppingListPrices(c.Request.Context(), req.ShoppingList, req.Zipcode)
	c.JSON(http.StatusOK, pricing)
}

// ClearCache 清空價格緩存，強制下次查詢走外部來源
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.priceSvc.ClearCache(c.Request.Context()); err != nil {
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
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}

// CacheStats 價格緩存統計
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.priceSvc.CacheStats())
}

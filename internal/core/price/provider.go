package price

import (
	"context"

	"meal-prep-api/internal/pkg/common"
)

// Provider 外部價格來源
// 查詢失敗或查無此品項時返回錯誤，服務層會換下一個來源，最後退回估價
type Provider interface {
	// Name 來源名稱，寫進報價的 source 欄位
	Name() string

	// Available 是否具備查詢條件（憑證已設定）
	Available() bool

	// Supports 是否支持指定商店
	Supports(store string) bool

	// Fetch 查詢單一品項的報價
	Fetch(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error)
}

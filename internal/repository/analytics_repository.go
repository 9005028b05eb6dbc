package repository

import "context"

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type BestSeller struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	QuantitySold int64  `json:"quantity_sold"`
}

// 集計クエリだけをまとめる（管理画面用）。
type AnalyticsRepository interface {
	// PAID注文のamount合計
	TotalRevenue(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
}

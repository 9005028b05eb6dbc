package usecase

import (
	"context"
	"net/http"

	repo "shop/internal/repository"
)

type AnalyticsUsecase struct {
	analyticsRepo repo.AnalyticsRepository
}

func NewAnalyticsUsecase(analyticsRepo repo.AnalyticsRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{analyticsRepo: analyticsRepo}
}

type AnalyticsSummary struct {
	TotalRevenue   int64              `json:"total_revenue"`
	TotalOrders    int64              `json:"total_orders"`
	OrdersByStatus []repo.StatusCount `json:"orders_by_status"`
	BestSellers    []repo.BestSeller  `json:"best_sellers"`
}

// 管理画面のダッシュボード用サマリ。
// 売上はPAID注文のamount合計（セント）。
func (u *AnalyticsUsecase) Summary(ctx context.Context) (AnalyticsSummary, error) {
	revenue, err := u.analyticsRepo.TotalRevenue(ctx)
	if err != nil {
		return AnalyticsSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orders, err := u.analyticsRepo.CountOrders(ctx)
	if err != nil {
		return AnalyticsSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	byStatus, err := u.analyticsRepo.CountOrdersByStatus(ctx)
	if err != nil {
		return AnalyticsSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	best, err := u.analyticsRepo.BestSellers(ctx, 5)
	if err != nil {
		return AnalyticsSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AnalyticsSummary{
		TotalRevenue:   revenue,
		TotalOrders:    orders,
		OrdersByStatus: byStatus,
		BestSellers:    best,
	}, nil
}

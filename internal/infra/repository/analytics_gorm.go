package repository

import (
	"context"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

// PAID注文のamount合計
func (r *AnalyticsGormRepository) TotalRevenue(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("status = ?", model.OrderStatusPaid).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *AnalyticsGormRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountOrdersByStatus(ctx context.Context) ([]repo.StatusCount, error) {
	var rows []repo.StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return []repo.StatusCount{}, err
	}
	return rows, nil
}

// 売上数量の多い商品（上位limit件）
func (r *AnalyticsGormRepository) BestSellers(ctx context.Context, limit int) ([]repo.BestSeller, error) {
	if limit <= 0 {
		limit = 5
	}

	// 売上として数えるのはPAIDの注文だけ
	var rows []repo.BestSeller
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, products.name as product_name, SUM(order_items.quantity) as quantity_sold").
		Joins("join products on products.id = order_items.product_id").
		Joins("join orders on orders.id = order_items.order_id").
		Where("orders.status = ?", model.OrderStatusPaid).
		Group("order_items.product_id, products.name").
		Order("quantity_sold desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []repo.BestSeller{}, err
	}
	return rows, nil
}

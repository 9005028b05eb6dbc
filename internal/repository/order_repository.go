package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 行ロック付き取得。注文単位の遷移を直列化するために使う。
	// トランザクション内でのみ呼ぶこと。
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	// 決済セッション参照から注文を引く（webhook用）。
	FindBySessionID(ctx context.Context, sessionID string) (model.Order, error)

	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

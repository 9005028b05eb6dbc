package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 適用済みwebhookイベントの記録。追記のみ。
type PaymentEventRepository interface {
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)
	Create(ctx context.Context, ev model.PaymentEvent) error
}

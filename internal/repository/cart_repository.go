package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)

	// 明細を全削除（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}

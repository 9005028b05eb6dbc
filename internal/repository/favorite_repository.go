package repository

import (
	"context"

	"shop/internal/domain/model"
)

type FavoriteRepository interface {
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Favorite, error)
	FindByCustomerAndProduct(ctx context.Context, customerID int64, productID int64) (model.Favorite, error)
	FindByID(ctx context.Context, id int64) (model.Favorite, error)
	Create(ctx context.Context, f model.Favorite) (model.Favorite, error)
	DeleteByID(ctx context.Context, id int64) error
}

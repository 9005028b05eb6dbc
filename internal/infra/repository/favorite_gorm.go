package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Favorite, error) {
	var items []model.Favorite
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Favorite{}, err
	}
	return items, nil
}

func (r *FavoriteGormRepository) FindByCustomerAndProduct(ctx context.Context, customerID int64, productID int64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Favorite{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Favorite{}, err
	}
	return f, nil
}

func (r *FavoriteGormRepository) FindByID(ctx context.Context, id int64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Favorite{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Favorite{}, err
	}
	return f, nil
}

func (r *FavoriteGormRepository) Create(ctx context.Context, f model.Favorite) (model.Favorite, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return model.Favorite{}, err
	}
	return f, nil
}

func (r *FavoriteGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Favorite{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

package usecase

import (
	"context"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type FavoriteUsecase struct {
	favoriteRepo repo.FavoriteRepository
	productRepo  repo.ProductRepository
}

func NewFavoriteUsecase(favoriteRepo repo.FavoriteRepository, productRepo repo.ProductRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favoriteRepo: favoriteRepo, productRepo: productRepo}
}

type FavoriteView struct {
	ID      int64         `json:"id"`
	Product model.Product `json:"product"`
}

func (u *FavoriteUsecase) List(ctx context.Context, customerID int64) ([]FavoriteView, error) {
	fs, err := u.favoriteRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]FavoriteView, 0, len(fs))
	for _, f := range fs {
		p, err := u.productRepo.FindByID(ctx, f.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = append(out, FavoriteView{ID: f.ID, Product: p})
	}
	return out, nil
}

// 登録は冪等。すでにあれば既存を返す。
func (u *FavoriteUsecase) Add(ctx context.Context, customerID int64, productID int64) (model.Favorite, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Favorite{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Favorite{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	existing, err := u.favoriteRepo.FindByCustomerAndProduct(ctx, customerID, productID)
	if err == nil {
		return existing, nil
	}
	if err != repo.ErrNotFound {
		return model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	f, err := u.favoriteRepo.Create(ctx, model.Favorite{CustomerID: customerID, ProductID: productID})
	if err != nil {
		return model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return f, nil
}

func (u *FavoriteUsecase) Remove(ctx context.Context, customerID int64, favoriteID int64) error {
	f, err := u.favoriteRepo.FindByID(ctx, favoriteID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "favorite not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if f.CustomerID != customerID {
		return NewHTTPError(http.StatusNotFound, "favorite not found")
	}

	if err := u.favoriteRepo.DeleteByID(ctx, favoriteID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

package usecase

import (
	"context"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	if _, err := u.productRepo.FindByID(ctx, productID); err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	} else if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rs, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rs, nil
}

func validateReview(rating int, text string) error {
	if rating < 1 || rating > 5 {
		return NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(text) > 2000 {
		return NewHTTPError(http.StatusBadRequest, "review text too long")
	}
	return nil
}

func (u *ReviewUsecase) Create(ctx context.Context, customerID int64, productID int64, rating int, text string) (model.Review, error) {
	if err := validateReview(rating, text); err != nil {
		return model.Review{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	r, err := u.reviewRepo.Create(ctx, model.Review{
		CustomerID: customerID,
		ProductID:  productID,
		Rating:     rating,
		ReviewText: text,
	})
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return r, nil
}

func (u *ReviewUsecase) Update(ctx context.Context, customerID int64, reviewID int64, rating int, text string) (model.Review, error) {
	if err := validateReview(rating, text); err != nil {
		return model.Review{}, err
	}

	r, err := u.mustOwn(ctx, customerID, reviewID)
	if err != nil {
		return model.Review{}, err
	}

	r.Rating = rating
	r.ReviewText = text
	if err := u.reviewRepo.Update(ctx, r); err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return r, nil
}

func (u *ReviewUsecase) Delete(ctx context.Context, customerID int64, reviewID int64) error {
	if _, err := u.mustOwn(ctx, customerID, reviewID); err != nil {
		return err
	}
	if err := u.reviewRepo.DeleteByID(ctx, reviewID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ReviewUsecase) mustOwn(ctx context.Context, customerID int64, reviewID int64) (model.Review, error) {
	r, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.CustomerID != customerID {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "review not found")
	}
	return r, nil
}

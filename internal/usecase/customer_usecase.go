package usecase

import (
	"context"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/validator"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
}

func NewCustomerUsecase(customerRepo repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customerRepo: customerRepo}
}

// Resolve はトークンのsubjectから顧客を引き、初回なら作る。
// 認証済みリクエストの入口で必ず通る。
func (u *CustomerUsecase) Resolve(ctx context.Context, subject string, email string, name string) (model.Customer, error) {
	if subject == "" {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c, err := u.customerRepo.GetOrCreateBySubject(ctx, subject, email, name)
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CustomerUsecase) GetProfile(ctx context.Context, customerID int64) (model.Customer, error) {
	c, err := u.customerRepo.FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 空文字のフィールドは変更なし扱い。
func (u *CustomerUsecase) UpdateProfile(ctx context.Context, customerID int64, name string, email string) (model.Customer, error) {
	if err := validator.ValidateProfile(name, email); err != nil {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "invalid profile")
	}

	c, err := u.customerRepo.FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if name != "" {
		c.Name = name
	}
	if email != "" {
		c.Email = email
	}

	if err := u.customerRepo.Update(ctx, c); err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

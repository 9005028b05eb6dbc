package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CustomerRepository interface {
	// subjectで引いて無ければ作る。IDプロバイダが返したemail/nameを初期値にする。
	GetOrCreateBySubject(ctx context.Context, subject string, email string, name string) (model.Customer, error)
	FindBySubject(ctx context.Context, subject string) (model.Customer, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) error
}

package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// subjectで探して無ければ作成。
func (r *CustomerGormRepository) GetOrCreateBySubject(ctx context.Context, subject string, email string, name string) (model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("subject = ?", subject).First(&c).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		newCustomer := model.Customer{
			Subject:   subject,
			Email:     email,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newCustomer).Error; err != nil {
			// subjectのunique競合は作成済みを拾い直す
			retryErr := tx.Where("subject = ?", subject).First(&c).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		c = newCustomer
		return nil
	})

	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) FindBySubject(ctx context.Context, subject string) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"email": c.Email,
			"name":  c.Name,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

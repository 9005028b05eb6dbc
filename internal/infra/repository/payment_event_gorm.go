package repository

import (
	"context"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type PaymentEventGormRepository struct {
	db *gorm.DB
}

func NewPaymentEventGormRepository(db *gorm.DB) *PaymentEventGormRepository {
	return &PaymentEventGormRepository{db: db}
}

func (r *PaymentEventGormRepository) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PaymentEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 追記のみ。event_idのuniqueが二重適用の最後の砦。
func (r *PaymentEventGormRepository) Create(ctx context.Context, ev model.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(&ev).Error
}

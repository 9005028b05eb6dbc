package model

import "time"

// 1顧客につきカートは1つ。初回アクセスで作成し、
// チェックアウト成功時は明細だけ消す（カート自体は残す）。
type Cart struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;uniqueIndex" json:"customer_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

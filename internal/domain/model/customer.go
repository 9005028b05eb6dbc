package model

import "time"

// 外部IDプロバイダのsubjectに1:1で対応する顧客。
// 初回アクセス時に自動作成する。
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

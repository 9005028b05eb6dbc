package model

import "time"

// お気に入り。顧客×商品で1件。
type Favorite struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;index;uniqueIndex:uniq_customer_product" json:"customer_id"`
	ProductID  int64     `gorm:"not null;index;uniqueIndex:uniq_customer_product" json:"product_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

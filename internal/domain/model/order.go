package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
	OrderStatusRefunded OrderStatus = "REFUNDED"

	// 決済は完了したが在庫確定の減算が競合で失敗した状態。
	// 自動では解決できないのでオペレーター対応に回す。
	OrderStatusUnfulfillable OrderStatus = "UNFULFILLABLE"
)

// 許可された遷移だけtrue。遷移表はここ1箇所。
func CanTransition(from OrderStatus, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPaid || to == OrderStatusCanceled || to == OrderStatusUnfulfillable
	case OrderStatusPaid:
		return to == OrderStatusRefunded
	case OrderStatusUnfulfillable:
		return to == OrderStatusCanceled
	default:
		return false
	}
}

// 終端ステータスか（PAIDは返金遷移だけ残るので終端扱いにしない）。
func IsTerminal(s OrderStatus) bool {
	return s == OrderStatusCanceled || s == OrderStatusRefunded
}

// amountは作成後に変更しない。明細の価格スナップショットの合計。
type Order struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID       int64       `gorm:"not null;index" json:"customer_id"`
	Status           OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Amount           int64       `gorm:"not null" json:"amount"`
	PaymentSessionID string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt        time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

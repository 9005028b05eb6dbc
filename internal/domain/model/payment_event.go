package model

import "time"

// 決済プロセッサから受信して適用済みのイベント。追記のみ。
// event_idのuniqueで同一イベントの二重適用（二重減算）を防ぐ。
type PaymentEvent struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"event_id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	EventType   string    `gorm:"type:varchar(100);not null" json:"event_type"`
	ProcessedAt time.Time `gorm:"not null;autoCreateTime" json:"processed_at"`
}

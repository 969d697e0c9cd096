// file: models/event_order.go
package models

// EventOrder 对应 pairshead_event_order 表
// 把 event_band 映射到起航抽签的基数，CSV 导入
type EventOrder struct {
	ID         uint32 `gorm:"primarykey" json:"id"`
	Event      string `gorm:"size:40;not null;uniqueIndex" json:"event"`
	EventOrder int    `gorm:"not null" json:"event_order"`
}

func (EventOrder) TableName() string {
	return "pairshead_event_order"
}

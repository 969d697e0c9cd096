// file: models/original_event_category.go
package models

// OriginalEventCategory 对应 pairshead_original_event_category 表
// 记录船只重新分组前的原始类别码（如 "MasC2x"），只给 masters handicap 查表用
type OriginalEventCategory struct {
	ID            uint32 `gorm:"primarykey" json:"id"`
	CrewID        *uint32 `gorm:"index" json:"crew_id,omitempty"`
	Crew          *Crew   `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	EventOriginal string  `gorm:"size:30;not null" json:"event_original"`
}

func (OriginalEventCategory) TableName() string {
	return "pairshead_original_event_category"
}

// file: models/event.go
package models

// EventGender 定义赛事性别分类
type EventGender string

const (
	GenderOpen   EventGender = "Open"
	GenderFemale EventGender = "Female"
	GenderMixed  EventGender = "Mixed"
)

// Event 对应 pairshead_event 表
// type 为 "Master" 的赛事参与 masters handicap 计算
type Event struct {
	ID           uint32      `gorm:"primarykey" json:"id"`
	Name         string      `gorm:"size:30;not null" json:"name"`
	OverrideName string      `gorm:"size:30" json:"override_name,omitempty"`
	Info         string      `gorm:"size:30" json:"info,omitempty"`
	Type         string      `gorm:"size:30" json:"type,omitempty"`
	Gender       EventGender `gorm:"size:20" json:"gender,omitempty"`
}

func (Event) TableName() string {
	return "pairshead_event"
}

// Band 对应 pairshead_band 表，赛事下的子分组
type Band struct {
	ID      uint32 `gorm:"primarykey" json:"id"`
	Name    string `gorm:"size:30;not null" json:"name"`
	EventID uint32 `gorm:"not null" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (Band) TableName() string {
	return "pairshead_band"
}

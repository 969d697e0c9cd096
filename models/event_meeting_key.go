// file: models/event_meeting_key.go
package models

import (
	"gorm.io/gorm"
)

// EventMeetingKey 对应 pairshead_event_meeting_key 表
// British Rowing API 的 meeting 标识，current 旗标全表唯一
type EventMeetingKey struct {
	ID                  uint32 `gorm:"primarykey" json:"id"`
	EventMeetingKey     string `gorm:"size:50;not null" json:"event_meeting_key"`
	EventMeetingName    string `gorm:"size:50;not null" json:"event_meeting_name"`
	CurrentEventMeeting bool   `gorm:"default:false" json:"current_event_meeting"`
}

func (EventMeetingKey) TableName() string {
	return "pairshead_event_meeting_key"
}

// BeforeSave 设 current 时先清掉其它行的 current
func (k *EventMeetingKey) BeforeSave(tx *gorm.DB) error {
	if !k.CurrentEventMeeting {
		return nil
	}
	return tx.Model(&EventMeetingKey{}).
		Where("current_event_meeting = ? AND id <> ?", true, k.ID).
		Update("current_event_meeting", false).Error
}

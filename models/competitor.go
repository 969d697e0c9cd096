// file: models/competitor.go
package models

// Competitor 对应 pairshead_competitor 表，船员个人信息
type Competitor struct {
	ID        uint32 `gorm:"primarykey" json:"id"`
	CrewID    uint32 `gorm:"not null;index" json:"crew_id"`
	FirstName string `gorm:"size:50" json:"first_name,omitempty"`
	LastName  string `gorm:"size:50" json:"last_name"`
	Gender    string `gorm:"size:10" json:"gender,omitempty"`
}

func (Competitor) TableName() string {
	return "pairshead_competitor"
}

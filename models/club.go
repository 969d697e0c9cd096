// file: models/club.go
package models

// Club 对应 pairshead_club 表，俱乐部数据由 British Rowing 导入
type Club struct {
	ID           uint32 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	Abbreviation string `gorm:"size:50" json:"abbreviation,omitempty"`
	IndexCode    string `gorm:"size:20" json:"index_code,omitempty"`
	Colours      string `gorm:"size:100" json:"colours,omitempty"`
	BladeImage   string `gorm:"size:200" json:"blade_image,omitempty"`
}

func (Club) TableName() string {
	return "pairshead_club"
}

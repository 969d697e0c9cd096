// file: models/number_location.go
package models

// NumberLocation 对应 pairshead_number_location 表
// 按俱乐部记录号码布领取地点，仅供报表展示
type NumberLocation struct {
	ID             uint32 `gorm:"primarykey" json:"id"`
	Club           string `gorm:"size:50;not null;uniqueIndex" json:"club"`
	NumberLocation string `gorm:"size:100;not null" json:"number_location"`
}

func (NumberLocation) TableName() string {
	return "pairshead_number_location"
}

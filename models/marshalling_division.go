// file: models/marshalling_division.go
package models

// MarshallingDivision 对应 pairshead_marshalling_division 表
// 按号码段划分列队区域，仅供报表展示
type MarshallingDivision struct {
	ID          uint32 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	BottomRange int    `gorm:"not null" json:"bottom_range"`
	TopRange    int    `gorm:"not null" json:"top_range"`
}

func (MarshallingDivision) TableName() string {
	return "pairshead_marshalling_division"
}

// DivisionForNumber 按号码找列队分区；优先用 bib，没有 bib 时退回计算出的出发序号
func DivisionForNumber(divisions []MarshallingDivision, number int) string {
	for _, d := range divisions {
		if number >= d.BottomRange && number <= d.TopRange {
			return d.Name
		}
	}
	return ""
}

// file: models/masters_adjustment.go
package models

// MastersAdjustment 对应 pairshead_masters_adjustment 表
// 查表键为 (master_category, standard_time_ms)，standard_time_ms 取整到 1000ms
type MastersAdjustment struct {
	ID                     uint32 `gorm:"primarykey" json:"id"`
	StandardTimeLabel      string `gorm:"size:5" json:"standard_time_label"`
	StandardTimeMs         int64  `gorm:"not null" json:"standard_time_ms"`
	MasterCategory         string `gorm:"size:4;not null" json:"master_category"`
	MasterTimeAdjustmentMs int64  `gorm:"not null" json:"master_time_adjustment_ms"`
}

func (MastersAdjustment) TableName() string {
	return "pairshead_masters_adjustment"
}

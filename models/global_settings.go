// file: models/global_settings.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// RaceMode 比赛阶段
type RaceMode string

const (
	ModePreRace RaceMode = "PRE_RACE"
	ModeRace    RaceMode = "RACE"
)

// GlobalSettings 对应 pairshead_global_settings 表，全局配置单例
// 永远只有 id=1 一行，写入时强制覆盖主键
type GlobalSettings struct {
	ID                   uint32     `gorm:"primarykey" json:"id"`
	RaceMode             RaceMode   `gorm:"size:10;default:'PRE_RACE'" json:"race_mode"`
	BroeDataLastUpdate   *time.Time `json:"broe_data_last_update,omitempty"`
	TimingOffset         int64      `gorm:"default:0" json:"timing_offset"`
	TimingOffsetPositive bool       `gorm:"default:true" json:"timing_offset_positive"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (GlobalSettings) TableName() string {
	return "pairshead_global_settings"
}

// BeforeSave 强制单例
func (s *GlobalSettings) BeforeSave(_ *gorm.DB) error {
	s.ID = 1
	return nil
}

// LoadGlobalSettings 取单例，不存在时创建默认行
func LoadGlobalSettings(db *gorm.DB) (*GlobalSettings, error) {
	var settings GlobalSettings
	err := db.Where(GlobalSettings{ID: 1}).
		Attrs(GlobalSettings{RaceMode: ModePreRace}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// file: models/race.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Race 对应 pairshead_race 表，一路独立的计时数据源（Webscorer 等）
// default_start / default_finish / is_timing_reference 三个旗标全表唯一，
// 写入时先清掉其它行再落本行
type Race struct {
	ID                uint32    `gorm:"primarykey" json:"id"`
	RaceID            string    `gorm:"column:race_id;size:15" json:"race_id"`
	Name              string    `gorm:"size:30;not null" json:"name"`
	DefaultStart      bool      `gorm:"default:false" json:"default_start"`
	DefaultFinish     bool      `gorm:"default:false" json:"default_finish"`
	IsTimingReference bool      `gorm:"default:false" json:"is_timing_reference"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Race) TableName() string {
	return "pairshead_race"
}

// BeforeSave GORM Hook，保证三个默认旗标在全表内互斥
func (r *Race) BeforeSave(tx *gorm.DB) error {
	if r.DefaultStart {
		if err := tx.Model(&Race{}).Where("default_start = ? AND id <> ?", true, r.ID).
			Update("default_start", false).Error; err != nil {
			return err
		}
	}
	if r.DefaultFinish {
		if err := tx.Model(&Race{}).Where("default_finish = ? AND id <> ?", true, r.ID).
			Update("default_finish", false).Error; err != nil {
			return err
		}
	}
	if r.IsTimingReference {
		if err := tx.Model(&Race{}).Where("is_timing_reference = ? AND id <> ?", true, r.ID).
			Update("is_timing_reference", false).Error; err != nil {
			return err
		}
	}
	return nil
}

// RaceTimingSync 对应 pairshead_race_timing_sync 表
// target_race 的原始打点 + timing_offset_ms = reference_race 时钟上的时间
// 每对 (reference, target) 只允许一条记录；偏移都直接对参考时钟定义，不做链式换算
type RaceTimingSync struct {
	ID              uint32    `gorm:"primarykey" json:"id"`
	ReferenceRaceID uint32    `gorm:"not null;uniqueIndex:idx_sync_pair" json:"reference_race_id"`
	ReferenceRace   *Race     `gorm:"foreignKey:ReferenceRaceID" json:"reference_race,omitempty"`
	TargetRaceID    uint32    `gorm:"not null;uniqueIndex:idx_sync_pair" json:"target_race_id"`
	TargetRace      *Race     `gorm:"foreignKey:TargetRaceID" json:"target_race,omitempty"`
	TimingOffsetMs  int64     `gorm:"not null" json:"timing_offset_ms"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (RaceTimingSync) TableName() string {
	return "pairshead_race_timing_sync"
}

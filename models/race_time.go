// file: models/race_time.go
package models

import (
	"time"
)

// TapRole 计时点类型
type TapRole string

const (
	TapStart  TapRole = "Start"
	TapFinish TapRole = "Finish"
)

// RaceTime 对应 pairshead_race_time 表，一条计时设备打点记录
// crew 可以为空（未分配的打点等待人工对号），race 记录打点来源设备
type RaceTime struct {
	ID        uint32  `gorm:"primarykey" json:"id"`
	Sequence  int     `gorm:"not null" json:"sequence"`
	BibNumber int     `json:"bib_number,omitempty"`
	Tap       TapRole `gorm:"size:10;not null;index" json:"tap"`
	TimeTap   int64   `gorm:"not null" json:"time_tap"`
	CrewID    *uint32 `gorm:"index" json:"crew_id,omitempty"`
	Crew      *Crew   `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	RaceID    *uint32 `gorm:"index" json:"race_id,omitempty"`
	Race      *Race   `gorm:"foreignKey:RaceID" json:"race,omitempty"`

	// 每次 CSV/API 导入共用一个批次号，方便整批替换或回滚
	ImportBatchID string `gorm:"size:36" json:"import_batch_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RaceTime) TableName() string {
	return "pairshead_race_time"
}

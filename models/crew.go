// file: models/crew.go
package models

import (
	"strings"
	"time"
)

// CrewStatus 报名状态，与 British Rowing 导出保持一致
type CrewStatus string

const (
	CrewStatusAccepted  CrewStatus = "Accepted"
	CrewStatusScratched CrewStatus = "Scratched"
	CrewStatusSubmitted CrewStatus = "Submitted"
	CrewStatusWithdrawn CrewStatus = "Withdrawn"
)

// StartOrderSentinel 无有效 draw_start_score 的船只排在最后
const StartOrderSentinel = 9999999

// Crew 对应 pairshead_crew 表
// 所有 "计算字段" 只由 services 中的重算流程写入，禁止手工编辑
type Crew struct {
	ID            uint32     `gorm:"primarykey" json:"id"`
	Name          string     `gorm:"size:50;not null" json:"name"`
	CompositeCode string     `gorm:"size:10" json:"composite_code,omitempty"`
	ClubID        uint32     `gorm:"not null" json:"club_id"`
	Club          *Club      `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	HostClubID    *uint32    `json:"host_club_id,omitempty"`
	HostClub      *Club      `gorm:"foreignKey:HostClubID" json:"host_club,omitempty"`
	EventID       uint32     `gorm:"not null" json:"event_id"`
	Event         *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	BandID        *uint32    `json:"band_id,omitempty"`
	Band          *Band      `gorm:"foreignKey:BandID" json:"band,omitempty"`
	Status        CrewStatus `gorm:"size:20;index" json:"status"`

	RowingCRI   int `json:"rowing_CRI"`
	ScullingCRI int `json:"sculling_CRI"`
	BibNumber   int `json:"bib_number"`

	// Penalty 单位为秒
	Penalty                        int `gorm:"default:0" json:"penalty"`
	ManualOverrideMinutes          int `gorm:"default:0" json:"manual_override_minutes"`
	ManualOverrideSeconds          int `gorm:"default:0" json:"manual_override_seconds"`
	ManualOverrideHundredthsSecond int `gorm:"column:manual_override_hundredths_seconds;default:0" json:"manual_override_hundredths_seconds"`

	TimeOnly     bool `gorm:"default:false" json:"time_only"`
	DidNotStart  bool `gorm:"default:false" json:"did_not_start"`
	DidNotFinish bool `gorm:"default:false" json:"did_not_finish"`
	Disqualified bool `gorm:"default:false" json:"disqualified"`

	RequiresRecalculation bool `gorm:"default:false" json:"requires_recalculation"`

	// 每条船可以单独指定起点/终点计时设备，覆盖全局 default_start / default_finish
	RaceStartOverrideID  *uint32 `json:"race_start_override_id,omitempty"`
	RaceStartOverride    *Race   `gorm:"foreignKey:RaceStartOverrideID" json:"race_start_override,omitempty"`
	RaceFinishOverrideID *uint32 `json:"race_finish_override_id,omitempty"`
	RaceFinishOverride   *Race   `gorm:"foreignKey:RaceFinishOverrideID" json:"race_finish_override,omitempty"`

	// 仅用于 On-the-day 联系人报表
	OTDContact     string `gorm:"column:otd_contact;size:50" json:"otd_contact,omitempty"`
	OTDHomePhone   string `gorm:"column:otd_home_phone;size:20" json:"otd_home_phone,omitempty"`
	OTDMobilePhone string `gorm:"column:otd_mobile_phone;size:20" json:"otd_mobile_phone,omitempty"`
	OTDWorkPhone   string `gorm:"column:otd_work_phone;size:20" json:"otd_work_phone,omitempty"`

	// ---------- 计算字段 ----------
	EventBand            string   `gorm:"size:40;index" json:"event_band"`
	RawTime              int64    `json:"raw_time"`
	RaceTime             int64    `json:"race_time"`
	PublishedTime        int64    `json:"published_time"`
	CategoryPositionTime int64    `json:"category_position_time"`
	OverallRank          int      `json:"overall_rank"`
	GenderRank           int      `json:"gender_rank"`
	CategoryRank         int      `json:"category_rank"`
	MastersAdjustment    int64    `json:"masters_adjustment"`
	StartTime            int64    `json:"start_time"`
	FinishTime           int64    `json:"finish_time"`
	StartSequence        int      `json:"start_sequence"`
	FinishSequence       int      `json:"finish_sequence"`
	InvalidTime          int      `json:"invalid_time"`
	DrawStartScore       *float64 `json:"draw_start_score"`
	CalculatedStartOrder int      `json:"calculated_start_order"`
	CompetitorNames      string   `gorm:"size:200" json:"competitor_names,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Times       []RaceTime   `gorm:"foreignKey:CrewID" json:"times,omitempty"`
	Competitors []Competitor `gorm:"foreignKey:CrewID" json:"competitors,omitempty"`
}

func (Crew) TableName() string {
	return "pairshead_crew"
}

// ManualOverrideTime 把三个手工录入字段换算成毫秒
func (c *Crew) ManualOverrideTime() int64 {
	return int64(c.ManualOverrideMinutes)*60*1000 +
		int64(c.ManualOverrideSeconds)*1000 +
		int64(c.ManualOverrideHundredthsSecond)*10
}

// MastersAdjustedTime 有 masters 调整量时返回调整后的时间，否则返回 0
func (c *Crew) MastersAdjustedTime() int64 {
	if c.MastersAdjustment <= 0 {
		return 0
	}
	return c.RaceTime - c.MastersAdjustment
}

// JoinCompetitorNames 按 "姓 / 姓" 拼出展示名
func JoinCompetitorNames(competitors []Competitor) string {
	if len(competitors) == 0 {
		return ""
	}
	names := make([]string, 0, len(competitors))
	for _, comp := range competitors {
		names = append(names, comp.LastName)
	}
	return strings.Join(names, " / ")
}

// DisplayName 优先使用船员姓名串
func (c *Crew) DisplayName() string {
	if c.CompetitorNames != "" {
		return c.CompetitorNames
	}
	return c.Name
}

// StatusLabel 按固定优先级生成成绩状态文案：
// time_only > disqualified > did_not_start > did_not_finish > 无成绩 > Finished
func (c *Crew) StatusLabel() string {
	switch {
	case c.TimeOnly && c.RawTime > 0:
		return "Time Only"
	case c.Disqualified:
		return "Disqualified"
	case c.DidNotStart:
		return "Did not start"
	case c.DidNotFinish:
		return "Did not finish"
	case c.RawTime <= 0:
		return "Did not start"
	default:
		return "Finished"
	}
}

// file: services/snapshot.go
package services

import (
	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
)

// AdjustmentKey masters handicap 查表键
type AdjustmentKey struct {
	Category       string
	StandardTimeMs int64
}

// RaceDay 一次重算用到的全部数据快照
// 重算批次内所有船只读同一份快照，保证聚合值一致
type RaceDay struct {
	Crews       []*models.Crew
	TimesByCrew map[uint32][]models.RaceTime

	DefaultStart  *models.Race
	DefaultFinish *models.Race
	RaceByID      map[uint32]*models.Race
	SyncByTarget  map[uint32]*models.RaceTimingSync

	EventOrders    map[string]int
	HasEventOrders bool

	// 全局计时偏移（毫秒，带符号），加在终点打点上
	TimingOffsetMs int64

	// masters handicap 数据
	CategoryByCrew map[uint32]string
	MastersEnabled bool
	Adjustments    map[AdjustmentKey]int64
}

// LoadRaceDay 从数据库读出一份一致的快照
func LoadRaceDay() (*RaceDay, error) {
	day := &RaceDay{
		TimesByCrew:    make(map[uint32][]models.RaceTime),
		RaceByID:       make(map[uint32]*models.Race),
		SyncByTarget:   make(map[uint32]*models.RaceTimingSync),
		EventOrders:    make(map[string]int),
		CategoryByCrew: make(map[uint32]string),
		Adjustments:    make(map[AdjustmentKey]int64),
	}

	if err := database.DB.
		Preload("Club").Preload("HostClub").
		Preload("Event").Preload("Band").
		Preload("Competitors").
		Find(&day.Crews).Error; err != nil {
		return nil, err
	}

	var times []models.RaceTime
	if err := database.DB.Find(&times).Error; err != nil {
		return nil, err
	}
	for _, t := range times {
		if t.CrewID != nil {
			day.TimesByCrew[*t.CrewID] = append(day.TimesByCrew[*t.CrewID], t)
		}
	}

	var races []models.Race
	if err := database.DB.Find(&races).Error; err != nil {
		return nil, err
	}
	for i := range races {
		race := &races[i]
		day.RaceByID[race.ID] = race
		if race.DefaultStart {
			day.DefaultStart = race
		}
		if race.DefaultFinish {
			day.DefaultFinish = race
		}
	}

	settings, err := models.LoadGlobalSettings(database.DB)
	if err != nil {
		return nil, err
	}
	if settings.TimingOffset > 0 {
		if settings.TimingOffsetPositive {
			day.TimingOffsetMs = settings.TimingOffset
		} else {
			day.TimingOffsetMs = -settings.TimingOffset
		}
	}

	var syncs []models.RaceTimingSync
	if err := database.DB.Find(&syncs).Error; err != nil {
		return nil, err
	}
	for i := range syncs {
		day.SyncByTarget[syncs[i].TargetRaceID] = &syncs[i]
	}

	var orders []models.EventOrder
	if err := database.DB.Find(&orders).Error; err != nil {
		return nil, err
	}
	day.HasEventOrders = len(orders) > 0
	for _, o := range orders {
		day.EventOrders[o.Event] = o.EventOrder
	}

	var categories []models.OriginalEventCategory
	if err := database.DB.Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if cat.CrewID != nil {
			day.CategoryByCrew[*cat.CrewID] = cat.EventOriginal
		}
		// 出现过 "2x" 类别码说明 masters 原始类别表已导入，handicap 功能打开
		if cat.EventOriginal == "2x" {
			day.MastersEnabled = true
		}
	}

	var adjustments []models.MastersAdjustment
	if err := database.DB.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	for _, adj := range adjustments {
		key := AdjustmentKey{Category: adj.MasterCategory, StandardTimeMs: adj.StandardTimeMs}
		day.Adjustments[key] = adj.MasterTimeAdjustmentMs
	}

	return day, nil
}

// StartRaceFor 起点计时设备：船只覆盖优先，否则用全局 default_start
func (day *RaceDay) StartRaceFor(crew *models.Crew) *models.Race {
	if crew.RaceStartOverrideID != nil {
		if race, ok := day.RaceByID[*crew.RaceStartOverrideID]; ok {
			return race
		}
	}
	return day.DefaultStart
}

// FinishRaceFor 终点计时设备：船只覆盖优先，否则用全局 default_finish
func (day *RaceDay) FinishRaceFor(crew *models.Crew) *models.Race {
	if crew.RaceFinishOverrideID != nil {
		if race, ok := day.RaceByID[*crew.RaceFinishOverrideID]; ok {
			return race
		}
	}
	return day.DefaultFinish
}

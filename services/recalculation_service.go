// file: services/recalculation_service.go
package services

import (
	"fmt"
	"log"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
)

// RecalculationResult 重算批次的执行汇总，整批不会因单船失败而中断
type RecalculationResult struct {
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// DeriveAll 对快照里的全部船只按依赖顺序跑完整条派生流水线（纯内存，不落库）
// 顺序：计时字段 → 批次聚合（最快成绩桶）→ masters handicap → 排名
func DeriveAll(day *RaceDay) {
	for _, crew := range day.Crews {
		DeriveTimes(crew, day)
	}
	fastest := ComputeFastestTimes(day.Crews)
	for _, crew := range day.Crews {
		DeriveMasters(crew, day, fastest)
	}
	tables := BuildRankTables(day.Crews)
	for _, crew := range day.Crews {
		DeriveRanks(crew, tables)
	}
}

// RecalculateAll 全量重算：导入、改判、设备配置变更后都要调用
// 重算幂等，数据不变时重复执行结果完全一致
func RecalculateAll() (*RecalculationResult, error) {
	log.Println("Starting full crew recalculation...")

	day, err := LoadRaceDay()
	if err != nil {
		return nil, err
	}

	DeriveAll(day)

	result := &RecalculationResult{}
	for _, crew := range day.Crews {
		if err := persistDerivedFields(crew); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("crew %d (%s): %v", crew.ID, crew.Name, err))
			continue
		}
		result.Updated++
	}

	database.InvalidateResultCaches()
	log.Printf("Recalculation finished: %d updated, %d failed.", result.Updated, result.Failed)
	return result, nil
}

// RecalculateCrew 单船重算：其它船只的聚合输入用库里已存的派生值
func RecalculateCrew(crewID uint32) (*models.Crew, error) {
	day, err := LoadRaceDay()
	if err != nil {
		return nil, err
	}

	var target *models.Crew
	for _, crew := range day.Crews {
		if crew.ID == crewID {
			target = crew
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("crew %d not found", crewID)
	}

	DeriveTimes(target, day)
	fastest := ComputeFastestTimes(day.Crews)
	DeriveMasters(target, day, fastest)
	tables := BuildRankTables(day.Crews)
	DeriveRanks(target, tables)

	if err := persistDerivedFields(target); err != nil {
		return nil, err
	}
	database.InvalidateResultCaches()
	return target, nil
}

// RecalculateStartOrders 出发顺序重算，独立于成绩流水线，整批跑
func RecalculateStartOrders() (*RecalculationResult, error) {
	log.Println("Starting start order recalculation...")

	day, err := LoadRaceDay()
	if err != nil {
		return nil, err
	}

	ComputeDrawStartScores(day.Crews, day)
	AssignStartOrder(day.Crews)

	result := &RecalculationResult{}
	for _, crew := range day.Crews {
		updates := map[string]interface{}{
			"draw_start_score":       crew.DrawStartScore,
			"calculated_start_order": crew.CalculatedStartOrder,
		}
		if err := database.DB.Model(&models.Crew{}).Where("id = ?", crew.ID).
			Updates(updates).Error; err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("crew %d (%s): %v", crew.ID, crew.Name, err))
			continue
		}
		result.Updated++
	}

	database.InvalidateResultCaches()
	log.Printf("Start order recalculation finished: %d updated, %d failed.", result.Updated, result.Failed)
	return result, nil
}

// persistDerivedFields 只回写计算字段，不碰人工录入列
func persistDerivedFields(crew *models.Crew) error {
	updates := map[string]interface{}{
		"event_band":             crew.EventBand,
		"competitor_names":       crew.CompetitorNames,
		"raw_time":               crew.RawTime,
		"race_time":              crew.RaceTime,
		"published_time":         crew.PublishedTime,
		"category_position_time": crew.CategoryPositionTime,
		"overall_rank":           crew.OverallRank,
		"gender_rank":            crew.GenderRank,
		"category_rank":          crew.CategoryRank,
		"masters_adjustment":     crew.MastersAdjustment,
		"start_time":             crew.StartTime,
		"finish_time":            crew.FinishTime,
		"start_sequence":         crew.StartSequence,
		"finish_sequence":        crew.FinishSequence,
		"invalid_time":           crew.InvalidTime,
		"requires_recalculation": false,
	}
	return database.DB.Model(&models.Crew{}).Where("id = ?", crew.ID).
		Updates(updates).Error
}

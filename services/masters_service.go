// file: services/masters_service.go
package services

import (
	"math"
	"strings"

	"github.com/sian-alcock/pairshead-2020/models"
)

// FastestTimes 每个 性别×艇种 桶里 Accepted 船只的最快 raw_time
// 0 表示桶里没有有效成绩。整个批次只算一次，所有船只读同一份
type FastestTimes struct {
	OpenScull   int64
	OpenSweep   int64
	FemaleScull int64
	FemaleSweep int64
	MixedScull  int64
}

// ComputeFastestTimes 扫一遍全部船只，按 event_band 前缀/包含关系归桶取最小值
func ComputeFastestTimes(crews []*models.Crew) FastestTimes {
	var fastest FastestTimes
	minInto := func(slot *int64, t int64) {
		if *slot == 0 || t < *slot {
			*slot = t
		}
	}
	for _, crew := range crews {
		if crew.Status != models.CrewStatusAccepted || crew.RawTime <= 0 {
			continue
		}
		band := crew.EventBand
		switch {
		case strings.HasPrefix(band, "Op") && strings.Contains(band, "2x"):
			minInto(&fastest.OpenScull, crew.RawTime)
		case strings.HasPrefix(band, "Op") && strings.Contains(band, "2-"):
			minInto(&fastest.OpenSweep, crew.RawTime)
		case strings.HasPrefix(band, "W") && strings.Contains(band, "2x"):
			minInto(&fastest.FemaleScull, crew.RawTime)
		case strings.HasPrefix(band, "W") && strings.Contains(band, "2-"):
			minInto(&fastest.FemaleSweep, crew.RawTime)
		case strings.HasPrefix(band, "Mx") && strings.Contains(band, "2x"):
			minInto(&fastest.MixedScull, crew.RawTime)
		}
	}
	return fastest
}

// bucketFor 按船只自身的性别和艇种选桶
func (f FastestTimes) bucketFor(gender models.EventGender, scull bool) int64 {
	switch gender {
	case models.GenderOpen:
		if scull {
			return f.OpenScull
		}
		return f.OpenSweep
	case models.GenderFemale:
		if scull {
			return f.FemaleScull
		}
		return f.FemaleSweep
	case models.GenderMixed:
		if scull {
			return f.MixedScull
		}
	}
	return 0
}

// MastersCategoryCode 从原始类别串里切出 4 位 master 类别码
// 切片位置依赖性别前缀的长度：Open 无前缀、Female 前缀 2 字符（"W2"）、
// Mixed 前缀 3 字符（"Mx2"）。位置是和导入数据格式耦合的脆弱逻辑，保持原样
func MastersCategoryCode(original string, gender models.EventGender) string {
	lo, hi := 0, 4
	switch gender {
	case models.GenderFemale:
		lo, hi = 2, 6
	case models.GenderMixed:
		lo, hi = 3, 7
	}
	if lo > len(original) {
		return ""
	}
	if hi > len(original) {
		hi = len(original)
	}
	return original[lo:hi]
}

// RoundToStandardTime 取整到 1000ms，查 standard_time_ms 桶用
// 半数取偶，和原始导入表的取整方式一致
func RoundToStandardTime(ms int64) int64 {
	return int64(math.RoundToEven(float64(ms)/1000.0)) * 1000
}

// DeriveMasters 计算 masters handicap 及其下游字段（流水线第二段）
// 只有混合 masters 类别（event_band 含 "/"）的 Master 赛事船只参与；
// 查表不中一律按 0 处理
func DeriveMasters(crew *models.Crew, day *RaceDay, fastest FastestTimes) {
	crew.MastersAdjustment = mastersAdjustment(crew, day, fastest)

	// category_position_time：有 masters 调整时间就用它（加罚秒），否则用 published_time
	if adjusted := crew.MastersAdjustedTime(); adjusted > 0 {
		crew.CategoryPositionTime = adjusted + int64(crew.Penalty)*1000
	} else {
		crew.CategoryPositionTime = crew.PublishedTime
	}
}

func mastersAdjustment(crew *models.Crew, day *RaceDay, fastest FastestTimes) int64 {
	if !day.MastersEnabled {
		return 0
	}
	if crew.Event == nil || crew.Event.Type != "Master" {
		return 0
	}
	if !strings.Contains(crew.EventBand, "/") || crew.RawTime <= 0 {
		return 0
	}

	original := day.CategoryByCrew[crew.ID]
	if original == "" {
		return 0
	}

	var scull bool
	switch {
	case strings.Contains(original, "2x"):
		scull = true
	case strings.Contains(original, "2-"):
		scull = false
	default:
		return 0
	}

	bucket := fastest.bucketFor(crew.Event.Gender, scull)
	if bucket <= 0 {
		return 0
	}

	key := AdjustmentKey{
		Category:       MastersCategoryCode(original, crew.Event.Gender),
		StandardTimeMs: RoundToStandardTime(bucket),
	}
	return day.Adjustments[key]
}

// file: services/rank_service.go
package services

import (
	"sort"

	"github.com/sian-alcock/pairshead-2020/models"
)

// RankTables 批次内排名用的有序时间表，整个批次构建一次
type RankTables struct {
	published         []int64
	publishedByGender map[models.EventGender][]int64
	categoryByBand    map[string][]int64
}

// BuildRankTables 汇总全部 Accepted 船只的已发布时间
func BuildRankTables(crews []*models.Crew) *RankTables {
	tables := &RankTables{
		publishedByGender: make(map[models.EventGender][]int64),
		categoryByBand:    make(map[string][]int64),
	}
	for _, crew := range crews {
		if crew.Status != models.CrewStatusAccepted || crew.PublishedTime <= 0 {
			continue
		}
		tables.published = append(tables.published, crew.PublishedTime)
		if crew.Event != nil {
			gender := crew.Event.Gender
			tables.publishedByGender[gender] = append(tables.publishedByGender[gender], crew.PublishedTime)
		}
		if !crew.TimeOnly {
			tables.categoryByBand[crew.EventBand] = append(tables.categoryByBand[crew.EventBand], crew.CategoryPositionTime)
		}
	}
	sortInt64(tables.published)
	for _, values := range tables.publishedByGender {
		sortInt64(values)
	}
	for _, values := range tables.categoryByBand {
		sortInt64(values)
	}
	return tables
}

func sortInt64(values []int64) {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
}

// countBelow 有序表里严格小于 t 的个数
func countBelow(sorted []int64, t int64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= t })
}

// DeriveRanks 计算三种排名（流水线第三段）
// 排名 = 1 + 资格时间严格更小的 Accepted 船只数；同时间并列同名次
func DeriveRanks(crew *models.Crew, tables *RankTables) {
	crew.OverallRank = 1 + countBelow(tables.published, crew.PublishedTime)

	crew.GenderRank = 1
	if crew.Event != nil {
		crew.GenderRank = 1 + countBelow(tables.publishedByGender[crew.Event.Gender], crew.PublishedTime)
	}

	// time_only 船只不参与类别排名
	if crew.TimeOnly {
		crew.CategoryRank = 0
		return
	}
	crew.CategoryRank = 1 + countBelow(tables.categoryByBand[crew.EventBand], crew.CategoryPositionTime)
}

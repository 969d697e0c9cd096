// file: services/start_order_service.go
package services

import (
	"sort"
	"strings"

	"github.com/sian-alcock/pairshead-2020/models"
)

// ComputeDrawStartScores 抽签流水线 Phase A：给每条船算 draw_start_score
// 分数 = EventOrder 表里该 event_band 的基数 + row_score
// row_score = (1 + 同组里 CRI 严格更高的 Accepted 船数) / 1000，
// CRI 高的船 row_score 小，排在组内靠前
func ComputeDrawStartScores(crews []*models.Crew, day *RaceDay) {
	// 每个 event_band 的 CRI 列表只收集一次
	scullCRIs := make(map[string][]int)
	sweepCRIs := make(map[string][]int)
	for _, crew := range crews {
		if crew.Status != models.CrewStatusAccepted || crew.EventBand == "" {
			continue
		}
		if strings.Contains(crew.EventBand, "2x") {
			scullCRIs[crew.EventBand] = append(scullCRIs[crew.EventBand], crew.ScullingCRI)
		} else if strings.Contains(crew.EventBand, "2-") {
			sweepCRIs[crew.EventBand] = append(sweepCRIs[crew.EventBand], crew.RowingCRI)
		}
	}
	for _, cris := range scullCRIs {
		sort.Ints(cris)
	}
	for _, cris := range sweepCRIs {
		sort.Ints(cris)
	}

	for _, crew := range crews {
		crew.DrawStartScore = drawStartScore(crew, day, scullCRIs, sweepCRIs)
	}
}

func drawStartScore(crew *models.Crew, day *RaceDay, scullCRIs, sweepCRIs map[string][]int) *float64 {
	// 没导入 EventOrder 表或者船只还没有 event_band 时不参与排序
	if !day.HasEventOrders || crew.EventBand == "" {
		return nil
	}

	var rowScore float64
	if strings.Contains(crew.EventBand, "2x") {
		rowScore = float64(1+countGreater(scullCRIs[crew.EventBand], crew.ScullingCRI)) / 1000
	} else if strings.Contains(crew.EventBand, "2-") {
		rowScore = float64(1+countGreater(sweepCRIs[crew.EventBand], crew.RowingCRI)) / 1000
	}

	order, ok := day.EventOrders[crew.EventBand]
	if !ok {
		// event_band 在 EventOrder 表里找不到，按 "未排序" 处理，Phase B 排最后
		zero := 0.0
		return &zero
	}
	score := float64(order) + rowScore
	return &score
}

// countGreater 有序表里严格大于 cri 的个数（自己不会大于自己）
func countGreater(sorted []int, cri int) int {
	return len(sorted) - sort.SearchInts(sorted, cri+1)
}

// AssignStartOrder 抽签流水线 Phase B：按 (draw_start_score, name) 升序给出 1 起的出发序号
// 分数为 nil/0 的船一律得哨兵值 9999999，永远排最后；
// 分数完全相同时按船名字典序打破并列，保证结果确定
func AssignStartOrder(crews []*models.Crew) {
	eligible := make([]*models.Crew, 0, len(crews))
	for _, crew := range crews {
		if crew.Status == models.CrewStatusAccepted &&
			crew.DrawStartScore != nil && *crew.DrawStartScore > 0 {
			eligible = append(eligible, crew)
			continue
		}
		crew.CalculatedStartOrder = models.StartOrderSentinel
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if *eligible[i].DrawStartScore != *eligible[j].DrawStartScore {
			return *eligible[i].DrawStartScore < *eligible[j].DrawStartScore
		}
		return eligible[i].Name < eligible[j].Name
	})
	for i, crew := range eligible {
		crew.CalculatedStartOrder = i + 1
	}
}

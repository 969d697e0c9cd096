// file: services/recalculation_service_test.go
package services

import (
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

// pipelineDay 一个小而全的赛日：两条 Op 2x、一条 masters 混合组船
func pipelineDay() *RaceDay {
	day := newTestDay()
	day.MastersEnabled = true
	day.CategoryByCrew[3] = "MasC2x"
	day.Adjustments[AdjustmentKey{Category: "MasC", StandardTimeMs: 300000}] = 15000

	openEvent := &models.Event{ID: 1, Name: "Op 2x", Gender: models.GenderOpen}
	mastersEvent := &models.Event{
		ID: 2, Name: "Op MasC/D 2x", Type: "Master", Gender: models.GenderOpen,
	}

	day.Crews = []*models.Crew{
		{ID: 1, Name: "Fast", Status: models.CrewStatusAccepted, Event: openEvent},
		{ID: 2, Name: "Slow", Status: models.CrewStatusAccepted, Event: openEvent},
		{ID: 3, Name: "Masters", Status: models.CrewStatusAccepted, Event: mastersEvent},
	}

	addTap(day, 1, models.TapStart, 1, 100000, 1)
	addTap(day, 1, models.TapFinish, 2, 400000, 1)
	addTap(day, 2, models.TapStart, 1, 110000, 2)
	addTap(day, 2, models.TapFinish, 2, 430000, 2)
	addTap(day, 3, models.TapStart, 1, 120000, 3)
	addTap(day, 3, models.TapFinish, 2, 440000, 3)
	return day
}

func TestDeriveAllPipeline(t *testing.T) {
	day := pipelineDay()
	DeriveAll(day)

	fast, slow, masters := day.Crews[0], day.Crews[1], day.Crews[2]

	if fast.RawTime != 300000 || slow.RawTime != 320000 || masters.RawTime != 320000 {
		t.Fatalf("raw times = %d/%d/%d, want 300000/320000/320000",
			fast.RawTime, slow.RawTime, masters.RawTime)
	}

	// 最快 Op 2x 桶 = 300000；masters 船查表得 15000 调整
	if masters.MastersAdjustment != 15000 {
		t.Errorf("masters adjustment = %d, want 15000", masters.MastersAdjustment)
	}
	if masters.CategoryPositionTime != 305000 {
		t.Errorf("masters CategoryPositionTime = %d, want 305000", masters.CategoryPositionTime)
	}

	// 总名次按 published_time，类别名次按 category_position_time
	if fast.OverallRank != 1 {
		t.Errorf("fast OverallRank = %d, want 1", fast.OverallRank)
	}
	if slow.OverallRank != 2 || masters.OverallRank != 2 {
		t.Errorf("overall ranks = %d/%d, want 2/2 (tied)", slow.OverallRank, masters.OverallRank)
	}
	if fast.CategoryRank != 1 || masters.CategoryRank != 1 {
		t.Errorf("category ranks = %d/%d, want 1/1 (different bands)", fast.CategoryRank, masters.CategoryRank)
	}
}

func TestDeriveAllIdempotent(t *testing.T) {
	day := pipelineDay()
	DeriveAll(day)

	type derived struct {
		raw, race, published, category, adjustment int64
		overall, gender, categoryRank              int
	}
	snapshot := func() map[uint32]derived {
		out := make(map[uint32]derived)
		for _, crew := range day.Crews {
			out[crew.ID] = derived{
				raw:          crew.RawTime,
				race:         crew.RaceTime,
				published:    crew.PublishedTime,
				category:     crew.CategoryPositionTime,
				adjustment:   crew.MastersAdjustment,
				overall:      crew.OverallRank,
				gender:       crew.GenderRank,
				categoryRank: crew.CategoryRank,
			}
		}
		return out
	}

	first := snapshot()
	DeriveAll(day)
	second := snapshot()

	for id, want := range first {
		if second[id] != want {
			t.Errorf("crew %d: derived fields changed on rerun: %+v != %+v", id, second[id], want)
		}
	}
}

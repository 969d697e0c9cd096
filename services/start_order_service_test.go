// file: services/start_order_service_test.go
package services

import (
	"math/rand"
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

func startOrderDay() *RaceDay {
	day := newTestDay()
	day.HasEventOrders = true
	day.EventOrders = map[string]int{
		"Op 2x Band 1": 5,
		"W 2- Band 1":  8,
	}
	return day
}

func scullCrew(id uint32, name string, cri int) *models.Crew {
	return &models.Crew{
		ID:          id,
		Name:        name,
		Status:      models.CrewStatusAccepted,
		EventBand:   "Op 2x Band 1",
		ScullingCRI: cri,
	}
}

func TestComputeDrawStartScores(t *testing.T) {
	day := startOrderDay()
	high := scullCrew(1, "Alpha", 1200)
	low := scullCrew(2, "Bravo", 900)
	crews := []*models.Crew{high, low}

	ComputeDrawStartScores(crews, day)

	// CRI 高的船 row_score 小：5.001 vs 5.002
	wantHigh := 5 + float64(1)/1000
	wantLow := 5 + float64(2)/1000
	if high.DrawStartScore == nil || *high.DrawStartScore != wantHigh {
		t.Fatalf("high CRI score = %v, want %v", high.DrawStartScore, wantHigh)
	}
	if low.DrawStartScore == nil || *low.DrawStartScore != wantLow {
		t.Fatalf("low CRI score = %v, want %v", low.DrawStartScore, wantLow)
	}
}

func TestComputeDrawStartScoresSweep(t *testing.T) {
	day := startOrderDay()
	crew := &models.Crew{
		ID:        1,
		Name:      "Sweep",
		Status:    models.CrewStatusAccepted,
		EventBand: "W 2- Band 1",
		RowingCRI: 700,
	}
	ComputeDrawStartScores([]*models.Crew{crew}, day)
	want := 8 + float64(1)/1000
	if crew.DrawStartScore == nil || *crew.DrawStartScore != want {
		t.Fatalf("sweep score = %v, want %v", crew.DrawStartScore, want)
	}
}

func TestComputeDrawStartScoresNoEventOrders(t *testing.T) {
	day := startOrderDay()
	day.HasEventOrders = false
	crew := scullCrew(1, "Alpha", 1200)
	ComputeDrawStartScores([]*models.Crew{crew}, day)
	if crew.DrawStartScore != nil {
		t.Errorf("score = %v, want nil when event orders not imported", *crew.DrawStartScore)
	}
}

func TestComputeDrawStartScoresUnknownBand(t *testing.T) {
	day := startOrderDay()
	crew := scullCrew(1, "Alpha", 1200)
	crew.EventBand = "Op 2x Band 9"
	ComputeDrawStartScores([]*models.Crew{crew}, day)
	// event_band 不在表里：得 0 分，Phase B 排最后
	if crew.DrawStartScore == nil || *crew.DrawStartScore != 0 {
		t.Errorf("score = %v, want 0 for band missing from event order table", crew.DrawStartScore)
	}
}

func TestAssignStartOrder(t *testing.T) {
	score := func(s float64) *float64 { return &s }
	a := &models.Crew{ID: 1, Name: "Alpha", Status: models.CrewStatusAccepted, DrawStartScore: score(5.002)}
	b := &models.Crew{ID: 2, Name: "Bravo", Status: models.CrewStatusAccepted, DrawStartScore: score(5.001)}
	zero := &models.Crew{ID: 3, Name: "Zero", Status: models.CrewStatusAccepted, DrawStartScore: score(0)}
	nilScore := &models.Crew{ID: 4, Name: "Nil", Status: models.CrewStatusAccepted}
	scratched := &models.Crew{ID: 5, Name: "Gone", Status: models.CrewStatusScratched, DrawStartScore: score(5.003)}

	AssignStartOrder([]*models.Crew{a, b, zero, nilScore, scratched})

	if b.CalculatedStartOrder != 1 || a.CalculatedStartOrder != 2 {
		t.Errorf("orders = %d/%d, want Bravo=1 Alpha=2", b.CalculatedStartOrder, a.CalculatedStartOrder)
	}
	for _, crew := range []*models.Crew{zero, nilScore, scratched} {
		if crew.CalculatedStartOrder != models.StartOrderSentinel {
			t.Errorf("crew %s: order = %d, want sentinel", crew.Name, crew.CalculatedStartOrder)
		}
	}
}

func TestAssignStartOrderNameTieBreak(t *testing.T) {
	score := func(s float64) *float64 { return &s }
	b := &models.Crew{ID: 2, Name: "Bravo", Status: models.CrewStatusAccepted, DrawStartScore: score(5.001)}
	a := &models.Crew{ID: 1, Name: "Alpha", Status: models.CrewStatusAccepted, DrawStartScore: score(5.001)}

	AssignStartOrder([]*models.Crew{b, a})
	if a.CalculatedStartOrder != 1 || b.CalculatedStartOrder != 2 {
		t.Errorf("orders = Alpha:%d Bravo:%d, want 1/2 by name", a.CalculatedStartOrder, b.CalculatedStartOrder)
	}
}

func TestStartOrderDeterministicUnderPermutation(t *testing.T) {
	day := startOrderDay()

	build := func() []*models.Crew {
		return []*models.Crew{
			scullCrew(1, "Alpha", 1200),
			scullCrew(2, "Bravo", 900),
			scullCrew(3, "Charlie", 1500),
			scullCrew(4, "Delta", 900),
			scullCrew(5, "Echo", 1100),
		}
	}

	reference := build()
	ComputeDrawStartScores(reference, day)
	AssignStartOrder(reference)
	want := make(map[uint32]int)
	for _, crew := range reference {
		want[crew.ID] = crew.CalculatedStartOrder
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		crews := build()
		rng.Shuffle(len(crews), func(i, j int) { crews[i], crews[j] = crews[j], crews[i] })
		ComputeDrawStartScores(crews, day)
		AssignStartOrder(crews)
		for _, crew := range crews {
			if crew.CalculatedStartOrder != want[crew.ID] {
				t.Fatalf("trial %d: crew %d order = %d, want %d",
					trial, crew.ID, crew.CalculatedStartOrder, want[crew.ID])
			}
		}
	}
}

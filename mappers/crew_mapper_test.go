// file: mappers/crew_mapper_test.go
package mappers

import (
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

func testCrew() *models.Crew {
	return &models.Crew{
		ID:            42,
		Name:          "Smith / Jones",
		Status:        models.CrewStatusAccepted,
		BibNumber:     17,
		EventID:       3,
		Event:         &models.Event{ID: 3, Name: "Op 2x"},
		Band:          &models.Band{Name: "Band 1"},
		Club:          &models.Club{Name: "Barnes Bridge Ladies", IndexCode: "BBL"},
		EventBand:     "Op 2x Band 1",
		RawTime:       360000,
		RaceTime:      360000,
		PublishedTime: 360000,
		CategoryRank:  2,
	}
}

func TestMapCrewToResultRow(t *testing.T) {
	row := MapCrewToResultRow(testCrew())
	want := []string{"42", "3", "Op 2x", "Band 1", "", "Smith / Jones",
		"Barnes Bridge Ladies", "2", "06:00.00", "06:00.00", "Finished"}
	if len(row) != len(want) {
		t.Fatalf("row has %d columns, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestMapCrewToResultRowManualOverride(t *testing.T) {
	crew := testCrew()
	crew.ManualOverrideMinutes = 5
	crew.ManualOverrideSeconds = 30

	row := MapCrewToResultRow(crew)
	if row[8] != "05:30.00" {
		t.Errorf("raw time column = %q, want manual override 05:30.00", row[8])
	}
}

func TestMapCrewToResultRowMastersAdjusted(t *testing.T) {
	crew := testCrew()
	crew.MastersAdjustment = 15000

	row := MapCrewToResultRow(crew)
	// race time 列优先用 masters 调整后时间 345000ms
	if row[9] != "05:45.00" {
		t.Errorf("race time column = %q, want 05:45.00", row[9])
	}
}

func TestMapCrewToResultRowNoTime(t *testing.T) {
	crew := testCrew()
	crew.RawTime, crew.RaceTime, crew.PublishedTime = 0, 0, 0

	row := MapCrewToResultRow(crew)
	if row[7] != "0" {
		t.Errorf("rank column = %q, want 0 for timeless crew", row[7])
	}
	if row[8] != "0" || row[9] != "0" {
		t.Errorf("time columns = %q/%q, want 0/0", row[8], row[9])
	}
	if row[10] != "Did not start" {
		t.Errorf("status column = %q, want %q", row[10], "Did not start")
	}
}

func TestMapCrewToStartOrderRow(t *testing.T) {
	crew := testCrew()
	crew.HostClub = &models.Club{Name: "Barnes Bridge Ladies"}
	divisions := []models.MarshallingDivision{
		{Name: "Division 1", BottomRange: 1, TopRange: 100},
	}
	locations := map[string]string{"Barnes Bridge Ladies": "Rack A"}

	row := MapCrewToStartOrderRow(crew, divisions, locations)
	if row[8] != "Rack A" {
		t.Errorf("number location = %q, want %q", row[8], "Rack A")
	}
	if row[9] != "Division 1" {
		t.Errorf("division = %q, want %q", row[9], "Division 1")
	}

	// 领取地点没配置时给出醒目提示
	row = MapCrewToStartOrderRow(crew, divisions, map[string]string{})
	if row[8] != "⚠️ Missing number location!" {
		t.Errorf("missing location = %q, want warning text", row[8])
	}
}

func TestMapCrewToWebscorerRow(t *testing.T) {
	crew := testCrew()
	crew.CompetitorNames = "Smith / Jones"

	row := MapCrewToWebscorerRow(crew)
	// 取最后一个 "/" 之后的姓
	if row[0] != "BBL -  Jones" {
		t.Errorf("name column = %q, want %q", row[0], "BBL -  Jones")
	}
	if row[4] != "17" {
		t.Errorf("bib column = %q, want 17", row[4])
	}
}

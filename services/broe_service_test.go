// file: services/broe_service_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

func TestDecodeMeetingSetup(t *testing.T) {
	payload := `{
		"events": [
			{"id": 41, "name": "Op 2x", "overrideName": "Op MasC/D 2x", "info": "Band 2", "type": "Master", "gender": "Open"},
			{"id": 42, "name": "W 2-", "gender": "Female"}
		],
		"bands": [
			{"id": 7, "name": "Band 1", "eventId": 41}
		],
		"clubs": [
			{"id": 3, "name": "Barnes Bridge Ladies", "abbreviation": "BBL", "indexCode": "BBL", "colours": "Blue", "bladeImage": "https://example.org/bbl.png"}
		]
	}`

	var setup broeMeetingSetup
	if err := json.Unmarshal([]byte(payload), &setup); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(setup.Events) != 2 || len(setup.Bands) != 1 || len(setup.Clubs) != 1 {
		t.Fatalf("decoded %d events, %d bands, %d clubs; want 2/1/1",
			len(setup.Events), len(setup.Bands), len(setup.Clubs))
	}

	event := setup.Events[0].toModel()
	want := models.Event{
		ID: 41, Name: "Op 2x", OverrideName: "Op MasC/D 2x",
		Info: "Band 2", Type: "Master", Gender: models.GenderOpen,
	}
	if event != want {
		t.Errorf("event = %+v, want %+v", event, want)
	}
	// 响应里缺的字段落零值
	if got := setup.Events[1].toModel(); got.OverrideName != "" || got.Type != "" {
		t.Errorf("sparse event carried unexpected fields: %+v", got)
	}

	band := setup.Bands[0].toModel()
	if band.ID != 7 || band.Name != "Band 1" || band.EventID != 41 {
		t.Errorf("band = %+v, want {7 Band 1 41}", band)
	}

	club := setup.Clubs[0].toModel()
	if club.ID != 3 || club.IndexCode != "BBL" || club.BladeImage != "https://example.org/bbl.png" {
		t.Errorf("club = %+v", club)
	}
}

func TestCompetitorRows(t *testing.T) {
	payload := `{
		"competitors": [
			{"surname": "Jones", "gender": "F", "crewId": 50},
			{"surname": "Smith", "gender": "M", "crewId": 50},
			{"surname": "Unassigned", "gender": "M", "crewId": null}
		]
	}`

	var decoded broeCrewResponse
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rows := competitorRows(decoded.Competitors)
	// crewId 为空的条目不入库
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].CrewID != 50 || rows[0].LastName != "Jones" || rows[0].Gender != "F" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].LastName != "Smith" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestDecodeCrewInformation(t *testing.T) {
	payload := `{
		"crews": [
			{"id": 50, "name": "Jones / Smith", "compositeCode": "", "clubId": 3,
			 "rowingCRI": 120, "scullingCRI": 250, "eventId": 41, "bandId": 7,
			 "status": "Accepted", "customCrewNumber": 104,
			 "competitionNotes": "TO"}
		]
	}`

	var decoded broeCrewResponse
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Crews) != 1 {
		t.Fatalf("got %d crews, want 1", len(decoded.Crews))
	}
	entry := decoded.Crews[0]
	if entry.ID != 50 || entry.ClubID != 3 || entry.EventID != 41 {
		t.Errorf("crew ids = %d/%d/%d", entry.ID, entry.ClubID, entry.EventID)
	}
	if entry.BandID == nil || *entry.BandID != 7 {
		t.Errorf("BandID = %v, want 7", entry.BandID)
	}
	if entry.BoatingPermissionsClubID != nil {
		t.Errorf("BoatingPermissionsClubID = %v, want nil", entry.BoatingPermissionsClubID)
	}
	if entry.CompetitionNotes != "TO" {
		t.Errorf("CompetitionNotes = %q", entry.CompetitionNotes)
	}
}

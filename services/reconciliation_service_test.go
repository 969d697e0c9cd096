// file: services/reconciliation_service_test.go
package services

import (
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

func TestRawTimeConfidence(t *testing.T) {
	cases := []struct {
		name      string
		rawTimes  []int64
		wantLevel string
		wantScore int
	}{
		{"no times", nil, "none", 0},
		{"one time", []int64{300000}, "single", 0},
		{"spread within 1s", []int64{300000, 300900}, "high", 3},
		{"spread exactly 1s", []int64{300000, 301000}, "high", 3},
		{"spread within 5s", []int64{300000, 303000}, "medium", 2},
		{"spread over 5s", []int64{300000, 305001}, "low", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rawTimeConfidence(tc.rawTimes)
			if got.Level != tc.wantLevel || got.Score != tc.wantScore {
				t.Errorf("got %s/%d, want %s/%d", got.Level, got.Score, tc.wantLevel, tc.wantScore)
			}
		})
	}

	conf := rawTimeConfidence([]int64{300000, 302000, 304000})
	if conf.SpreadMs != 4000 || conf.MinMs != 300000 || conf.MaxMs != 304000 || conf.AvgMs != 302000 {
		t.Errorf("spread/min/max/avg = %d/%d/%d/%d", conf.SpreadMs, conf.MinMs, conf.MaxMs, conf.AvgMs)
	}
}

func reconciliationDay() *RaceDay {
	day := newTestDay()
	// 两台设备都有起终点打点，名称决定报表里的顺序
	day.RaceByID[1].Name = "Start camera"
	day.RaceByID[2].Name = "Webscorer"
	day.Crews = []*models.Crew{
		{ID: 1, BibNumber: 101, Name: "Steady crew"},
		{ID: 2, BibNumber: 102, Name: "Drifting crew"},
	}
	return day
}

func reconciliationTap(crew *uint32, race uint32, role models.TapRole, ms int64, seq int) models.RaceTime {
	return models.RaceTime{Sequence: seq, Tap: role, TimeTap: ms, CrewID: crew, RaceID: raceID(race)}
}

func TestCompareRawTimes(t *testing.T) {
	day := reconciliationDay()
	taps := []models.RaceTime{
		// crew 1：两台设备净耗时只差 500ms
		reconciliationTap(raceID(1), 1, models.TapStart, 100000, 1),
		reconciliationTap(raceID(1), 1, models.TapFinish, 400000, 1),
		reconciliationTap(raceID(1), 2, models.TapStart, 98000, 1),
		reconciliationTap(raceID(1), 2, models.TapFinish, 398500, 1),
		// crew 2：两台设备差 8s
		reconciliationTap(raceID(2), 1, models.TapStart, 110000, 2),
		reconciliationTap(raceID(2), 1, models.TapFinish, 420000, 2),
		reconciliationTap(raceID(2), 2, models.TapStart, 108000, 2),
		reconciliationTap(raceID(2), 2, models.TapFinish, 426000, 2),
		// 未挂船的打点不进对比
		reconciliationTap(nil, 1, models.TapFinish, 500000, 9),
	}

	report := CompareRawTimes(day, taps)

	if len(report.Races) != 2 {
		t.Fatalf("got %d races, want 2", len(report.Races))
	}
	if report.TotalCrews != 2 {
		t.Fatalf("TotalCrews = %d, want 2", report.TotalCrews)
	}

	// 低一致性的船排前面
	if report.Rows[0].Crew.ID != 2 || report.Rows[0].Confidence.Level != "low" {
		t.Errorf("rows[0] = crew %d (%s), want crew 2 (low)", report.Rows[0].Crew.ID, report.Rows[0].Confidence.Level)
	}
	if report.Rows[1].Crew.ID != 1 || report.Rows[1].Confidence.Level != "high" {
		t.Errorf("rows[1] = crew %d (%s), want crew 1 (high)", report.Rows[1].Crew.ID, report.Rows[1].Confidence.Level)
	}
	if got := report.Rows[1].RawTimes[1]; got != 300000 {
		t.Errorf("crew 1 race 1 raw = %d, want 300000", got)
	}
	if got := report.Rows[1].RawTimes[2]; got != 300500 {
		t.Errorf("crew 1 race 2 raw = %d, want 300500", got)
	}

	if report.ConfidenceSummary["high"] != 1 || report.ConfidenceSummary["low"] != 1 {
		t.Errorf("confidence summary = %v", report.ConfidenceSummary)
	}
	cov := report.Coverage[1]
	if cov.CompleteCount != 2 || cov.CoveragePercent != 100 {
		t.Errorf("race 1 coverage = %+v", cov)
	}
}

func TestCompareRawTimesIncompleteAndMissing(t *testing.T) {
	day := reconciliationDay()
	taps := []models.RaceTime{
		reconciliationTap(raceID(1), 1, models.TapStart, 100000, 1),
		reconciliationTap(raceID(1), 1, models.TapFinish, 400000, 1),
		// 设备 2 只有别的船的打点，够上榜但 crew 1 缺整套
		reconciliationTap(raceID(2), 2, models.TapStart, 108000, 2),
		reconciliationTap(raceID(2), 2, models.TapFinish, 426000, 2),
		// crew 2 在设备 1 上只有终点
		reconciliationTap(raceID(2), 1, models.TapFinish, 420000, 2),
	}

	report := CompareRawTimes(day, taps)

	var crew1, crew2 *RawTimeRow
	for i := range report.Rows {
		switch report.Rows[i].Crew.ID {
		case 1:
			crew1 = &report.Rows[i]
		case 2:
			crew2 = &report.Rows[i]
		}
	}
	if crew1 == nil || crew2 == nil {
		t.Fatalf("missing rows: %+v", report.Rows)
	}
	if len(crew1.MissingRaces) != 1 || crew1.MissingRaces[0] != 2 {
		t.Errorf("crew 1 missing = %v, want [2]", crew1.MissingRaces)
	}
	if len(crew2.IncompleteRaces) != 1 || crew2.IncompleteRaces[0] != 1 {
		t.Errorf("crew 2 incomplete = %v, want [1]", crew2.IncompleteRaces)
	}
	if crew1.Confidence.Level != "single" {
		t.Errorf("crew 1 confidence = %s, want single", crew1.Confidence.Level)
	}
}

func TestCompareSequences(t *testing.T) {
	day := reconciliationDay()
	taps := []models.RaceTime{
		// crew 1 两台设备序号一致
		reconciliationTap(raceID(1), 1, models.TapStart, 100000, 5),
		reconciliationTap(raceID(1), 2, models.TapStart, 98000, 5),
		// crew 2 序号不一致
		reconciliationTap(raceID(2), 1, models.TapStart, 110000, 6),
		reconciliationTap(raceID(2), 2, models.TapStart, 108000, 7),
		// 未挂船的起点打点
		reconciliationTap(nil, 2, models.TapStart, 90000, 1),
		// 终点打点与本报表无关
		reconciliationTap(raceID(1), 1, models.TapFinish, 400000, 5),
	}

	report := CompareSequences(day, models.TapStart, taps)

	if report.TotalCrews != 2 {
		t.Fatalf("TotalCrews = %d, want 2", report.TotalCrews)
	}
	if report.Agreements != 1 || report.Disagreements != 1 {
		t.Errorf("agreements/disagreements = %d/%d, want 1/1", report.Agreements, report.Disagreements)
	}

	// bib 排序：crew 1 (101) 在前
	if report.Rows[0].Crew.ID != 1 || !report.Rows[0].SequencesAgree {
		t.Errorf("rows[0] = crew %d agree=%v", report.Rows[0].Crew.ID, report.Rows[0].SequencesAgree)
	}
	if report.Rows[1].SequencesAgree {
		t.Errorf("crew 2 sequences should disagree")
	}

	if len(report.Unassigned) != 1 || report.Unassigned[0].RaceID != 2 || report.Unassigned[0].Sequence != 1 {
		t.Errorf("unassigned = %+v", report.Unassigned)
	}
}

func TestCompareResults(t *testing.T) {
	day := reconciliationDay()
	event := &models.Event{ID: 41, Name: "Op 2x", Gender: models.GenderOpen}
	day.Crews[0].Event = event
	day.Crews[1].Event = event
	day.Crews[0].Club = &models.Club{Name: "Thames RC"}
	// crew 2 带 5 秒罚时
	day.Crews[1].Penalty = 5

	// 设备 1 比参考时钟慢 2s
	day.SyncByTarget[1] = &models.RaceTimingSync{ReferenceRaceID: 2, TargetRaceID: 1, TimingOffsetMs: 2000}

	addTap(day, 1, models.TapStart, 1, 100000, 1)
	addTap(day, 1, models.TapFinish, 2, 402000, 1)
	addTap(day, 2, models.TapStart, 1, 110000, 2)
	addTap(day, 2, models.TapFinish, 2, 408000, 2)

	combo := RaceCombo{StartRaceID: 1, FinishRaceID: 2}
	report, err := CompareResults(day, combo, combo)
	if err != nil {
		t.Fatalf("CompareResults: %v", err)
	}

	results := report.Comparison1.Results["Op 2x"]
	if results.TotalCrews != 2 {
		t.Fatalf("TotalCrews = %d, want 2", results.TotalCrews)
	}
	// crew 1: (402000) - (100000 + 2000) = 300000
	if results.Winner == nil || results.Winner.CrewID != 1 || results.Winner.RawTimeMs != 300000 {
		t.Errorf("winner = %+v", results.Winner)
	}
	if results.Winner.ClubName != "Thames RC" {
		t.Errorf("winner club = %q", results.Winner.ClubName)
	}
	// crew 2: raw 296000 + 罚秒 5000 = 301000，落到第二
	if results.RunnerUp == nil || results.RunnerUp.CrewID != 2 || results.RunnerUp.PublishedTimeMs != 301000 {
		t.Errorf("runner up = %+v", results.RunnerUp)
	}
	if results.Winner.FormattedTime != "05:00.00" {
		t.Errorf("formatted = %q", results.Winner.FormattedTime)
	}

	// 两套组合相同，结果应一致
	if report.Comparison2.Results["Op 2x"].Winner.CrewID != 1 {
		t.Errorf("comparison2 winner = %+v", report.Comparison2.Results["Op 2x"].Winner)
	}
}

func TestCompareResultsSkipsNonFinishers(t *testing.T) {
	day := reconciliationDay()
	event := &models.Event{ID: 41, Name: "Op 2x"}
	day.Crews[0].Event = event
	day.Crews[1].Event = event
	day.Crews[1].DidNotFinish = true

	addTap(day, 1, models.TapStart, 1, 100000, 1)
	addTap(day, 1, models.TapFinish, 2, 400000, 1)
	addTap(day, 2, models.TapStart, 1, 110000, 2)
	addTap(day, 2, models.TapFinish, 2, 408000, 2)

	combo := RaceCombo{StartRaceID: 1, FinishRaceID: 2}
	report, err := CompareResults(day, combo, combo)
	if err != nil {
		t.Fatalf("CompareResults: %v", err)
	}
	if got := report.Comparison1.Results["Op 2x"].TotalCrews; got != 1 {
		t.Errorf("TotalCrews = %d, want 1", got)
	}
}

func TestCompareResultsUnknownRace(t *testing.T) {
	day := reconciliationDay()
	_, err := CompareResults(day, RaceCombo{StartRaceID: 99, FinishRaceID: 2}, RaceCombo{StartRaceID: 1, FinishRaceID: 2})
	if err == nil {
		t.Fatal("expected error for unknown race id")
	}
}

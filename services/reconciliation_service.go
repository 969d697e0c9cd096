// file: services/reconciliation_service.go
package services

import (
	"fmt"
	"sort"

	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// 对账报表：同一批打点在不同计时设备之间互相核对
// 正式成绩走 DeriveTimes 流水线，这里只做人工复核用的只读视图

// 离散度阈值（毫秒）：1s 以内算高一致性，5s 以内算中等
const (
	rawTimeSpreadHighMs   = 1000
	rawTimeSpreadMediumMs = 5000
)

// RaceRef 报表里引用计时设备的精简字段
type RaceRef struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	IsReference bool   `json:"is_reference"`
}

// CrewRef 报表里引用船只的精简字段
type CrewRef struct {
	ID              uint32 `json:"id"`
	BibNumber       int    `json:"bib_number"`
	Name            string `json:"name"`
	CompetitorNames string `json:"competitor_names"`
}

func crewRef(crew *models.Crew) CrewRef {
	return CrewRef{
		ID:              crew.ID,
		BibNumber:       crew.BibNumber,
		Name:            crew.Name,
		CompetitorNames: crew.CompetitorNames,
	}
}

// RawTimeConfidence 按各设备净耗时的离散度给出的一致性评级
type RawTimeConfidence struct {
	Level    string `json:"level"` // high / medium / low / single / none
	Score    int    `json:"score"`
	SpreadMs int64  `json:"spread_ms"`
	MinMs    int64  `json:"min_ms,omitempty"`
	MaxMs    int64  `json:"max_ms,omitempty"`
	AvgMs    int64  `json:"avg_ms,omitempty"`
}

func rawTimeConfidence(rawTimes []int64) RawTimeConfidence {
	switch len(rawTimes) {
	case 0:
		return RawTimeConfidence{Level: "none"}
	case 1:
		return RawTimeConfidence{Level: "single", AvgMs: rawTimes[0]}
	}

	minMs, maxMs, sum := rawTimes[0], rawTimes[0], int64(0)
	for _, t := range rawTimes {
		if t < minMs {
			minMs = t
		}
		if t > maxMs {
			maxMs = t
		}
		sum += t
	}
	conf := RawTimeConfidence{
		SpreadMs: maxMs - minMs,
		MinMs:    minMs,
		MaxMs:    maxMs,
		AvgMs:    sum / int64(len(rawTimes)),
	}
	switch {
	case conf.SpreadMs <= rawTimeSpreadHighMs:
		conf.Level, conf.Score = "high", 3
	case conf.SpreadMs <= rawTimeSpreadMediumMs:
		conf.Level, conf.Score = "medium", 2
	default:
		conf.Level, conf.Score = "low", 1
	}
	return conf
}

// RawTimeRow 一条船在各设备上的净耗时对比
type RawTimeRow struct {
	Crew            CrewRef           `json:"crew"`
	RawTimes        map[uint32]int64  `json:"raw_times"`
	IncompleteRaces []uint32          `json:"incomplete_races"`
	MissingRaces    []uint32          `json:"missing_races"`
	Confidence      RawTimeConfidence `json:"confidence"`
}

// RaceCoverage 单台设备的打点覆盖统计
type RaceCoverage struct {
	CompleteCount   int     `json:"complete_count"`
	IncompleteCount int     `json:"incomplete_count"`
	MissingCount    int     `json:"missing_count"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// RawTimeComparison 净耗时对账报表
type RawTimeComparison struct {
	Races             []RaceRef               `json:"races"`
	Coverage          map[uint32]RaceCoverage `json:"race_coverage"`
	Rows              []RawTimeRow            `json:"comparison_data"`
	TotalCrews        int                     `json:"total_crews"`
	ConfidenceSummary map[string]int          `json:"confidence_summary"`
}

// CompareRawTimes 对每条船算出各设备各自的 finish-start 净耗时并评一致性
// 只看同时有起点和终点打点的设备；同一设备内相减，时钟偏移自然抵消，不做同步
func CompareRawTimes(day *RaceDay, taps []models.RaceTime) *RawTimeComparison {
	races := racesWithBothTaps(day, taps)
	eligible := raceRefIndex(races)

	type slot struct{ start, finish *models.RaceTime }
	byCrewRace := make(map[uint32]map[uint32]*slot)
	for i := range taps {
		t := &taps[i]
		if t.CrewID == nil || t.RaceID == nil {
			continue
		}
		if _, ok := eligible[*t.RaceID]; !ok {
			continue
		}
		byRace, ok := byCrewRace[*t.CrewID]
		if !ok {
			byRace = make(map[uint32]*slot)
			byCrewRace[*t.CrewID] = byRace
		}
		s, ok := byRace[*t.RaceID]
		if !ok {
			s = &slot{}
			byRace[*t.RaceID] = s
		}
		switch t.Tap {
		case models.TapStart:
			s.start = t
		case models.TapFinish:
			s.finish = t
		}
	}

	crewByID := make(map[uint32]*models.Crew, len(day.Crews))
	for _, crew := range day.Crews {
		crewByID[crew.ID] = crew
	}

	report := &RawTimeComparison{
		Races:             races,
		Coverage:          make(map[uint32]RaceCoverage),
		ConfidenceSummary: map[string]int{"high": 0, "medium": 0, "low": 0, "single": 0, "none": 0},
	}

	for crewID, byRace := range byCrewRace {
		crew, ok := crewByID[crewID]
		if !ok {
			continue
		}
		row := RawTimeRow{
			Crew:            crewRef(crew),
			RawTimes:        make(map[uint32]int64),
			IncompleteRaces: []uint32{},
			MissingRaces:    []uint32{},
		}
		var rawTimes []int64
		for _, race := range races {
			s, ok := byRace[race.ID]
			switch {
			case !ok:
				row.MissingRaces = append(row.MissingRaces, race.ID)
			case s.start != nil && s.finish != nil:
				raw := s.finish.TimeTap - s.start.TimeTap
				row.RawTimes[race.ID] = raw
				rawTimes = append(rawTimes, raw)
			default:
				row.IncompleteRaces = append(row.IncompleteRaces, race.ID)
			}
		}
		row.Confidence = rawTimeConfidence(rawTimes)
		report.Rows = append(report.Rows, row)
	}

	// 低一致性排前面，操作员先看问题船
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Confidence.Score != b.Confidence.Score {
			return a.Confidence.Score < b.Confidence.Score
		}
		return sortableBib(a.Crew.BibNumber) < sortableBib(b.Crew.BibNumber)
	})

	report.TotalCrews = len(report.Rows)
	for _, row := range report.Rows {
		report.ConfidenceSummary[row.Confidence.Level]++
	}
	for _, race := range races {
		var cov RaceCoverage
		for _, row := range report.Rows {
			switch {
			case contains(row.MissingRaces, race.ID):
				cov.MissingCount++
			case contains(row.IncompleteRaces, race.ID):
				cov.IncompleteCount++
			default:
				cov.CompleteCount++
			}
		}
		if report.TotalCrews > 0 {
			cov.CoveragePercent = float64(cov.CompleteCount) / float64(report.TotalCrews) * 100
		}
		report.Coverage[race.ID] = cov
	}
	return report
}

// SequenceRow 一条船在各设备上拿到的打点序号
type SequenceRow struct {
	Crew           CrewRef            `json:"crew"`
	Sequences      map[uint32][]int   `json:"sequences"`
	MissingRaces   []uint32           `json:"missing_races"`
	SequencesAgree bool               `json:"sequences_agree"`
}

// UnassignedTap 未挂船的打点
type UnassignedTap struct {
	RaceID    uint32 `json:"race_id"`
	Sequence  int    `json:"sequence"`
	TimeTapMs int64  `json:"time_tap"`
	BibNumber int    `json:"bib_number"`
}

// SequenceComparison 打点序号对账报表
type SequenceComparison struct {
	Tap           models.TapRole  `json:"tap"`
	Races         []RaceRef       `json:"races"`
	Rows          []SequenceRow   `json:"comparison_data"`
	Unassigned    []UnassignedTap `json:"unassigned_data"`
	TotalCrews    int             `json:"total_crews"`
	Agreements    int             `json:"agreements"`
	Disagreements int             `json:"disagreements"`
}

// CompareSequences 对同一打点类型核对各设备给每条船的序号是否一致
// 未挂船的打点单独列出，供操作员认领
func CompareSequences(day *RaceDay, tap models.TapRole, taps []models.RaceTime) *SequenceComparison {
	report := &SequenceComparison{Tap: tap}

	byCrewRace := make(map[uint32]map[uint32][]int)
	raceHasTap := make(map[uint32]bool)
	for i := range taps {
		t := &taps[i]
		if t.Tap != tap || t.RaceID == nil {
			continue
		}
		raceHasTap[*t.RaceID] = true
		if t.CrewID == nil {
			report.Unassigned = append(report.Unassigned, UnassignedTap{
				RaceID:    *t.RaceID,
				Sequence:  t.Sequence,
				TimeTapMs: t.TimeTap,
				BibNumber: t.BibNumber,
			})
			continue
		}
		byRace, ok := byCrewRace[*t.CrewID]
		if !ok {
			byRace = make(map[uint32][]int)
			byCrewRace[*t.CrewID] = byRace
		}
		byRace[*t.RaceID] = append(byRace[*t.RaceID], t.Sequence)
	}

	for id, race := range day.RaceByID {
		if raceHasTap[id] {
			report.Races = append(report.Races, RaceRef{ID: race.ID, Name: race.Name, IsReference: race.IsTimingReference})
		}
	}
	sort.Slice(report.Races, func(i, j int) bool { return report.Races[i].Name < report.Races[j].Name })

	crewByID := make(map[uint32]*models.Crew, len(day.Crews))
	for _, crew := range day.Crews {
		crewByID[crew.ID] = crew
	}

	for crewID, byRace := range byCrewRace {
		crew, ok := crewByID[crewID]
		if !ok {
			continue
		}
		row := SequenceRow{
			Crew:         crewRef(crew),
			Sequences:    make(map[uint32][]int),
			MissingRaces: []uint32{},
		}
		unique := make(map[int]bool)
		for _, race := range report.Races {
			seqs, ok := byRace[race.ID]
			if !ok {
				row.MissingRaces = append(row.MissingRaces, race.ID)
				continue
			}
			row.Sequences[race.ID] = seqs
			for _, s := range seqs {
				unique[s] = true
			}
		}
		row.SequencesAgree = len(unique) <= 1
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Crew.BibNumber != b.Crew.BibNumber {
			return sortableBib(a.Crew.BibNumber) < sortableBib(b.Crew.BibNumber)
		}
		return a.Crew.Name < b.Crew.Name
	})
	sort.Slice(report.Unassigned, func(i, j int) bool {
		a, b := report.Unassigned[i], report.Unassigned[j]
		if a.RaceID != b.RaceID {
			return a.RaceID < b.RaceID
		}
		return a.Sequence < b.Sequence
	})

	report.TotalCrews = len(report.Rows)
	for _, row := range report.Rows {
		if row.SequencesAgree {
			report.Agreements++
		}
	}
	report.Disagreements = report.TotalCrews - report.Agreements
	return report
}

// RaceCombo 一对起终点设备，构成一套可算成绩的组合
type RaceCombo struct {
	StartRaceID  uint32 `json:"start_race_id" binding:"required"`
	FinishRaceID uint32 `json:"finish_race_id" binding:"required"`
}

// ComboResultCrew 某组合下一条船的成绩
type ComboResultCrew struct {
	CrewID          uint32 `json:"crew_id"`
	CrewName        string `json:"crew_name"`
	ClubName        string `json:"club_name"`
	BibNumber       int    `json:"bib_number"`
	RawTimeMs       int64  `json:"raw_time"`
	RaceTimeMs      int64  `json:"race_time"`
	PublishedTimeMs int64  `json:"published_time"`
	FormattedTime   string `json:"formatted_time"`
	Penalty         int    `json:"penalty"`
}

// ComboCategoryResult 某组别在该组合下的前两名
type ComboCategoryResult struct {
	Winner     *ComboResultCrew `json:"winner"`
	RunnerUp   *ComboResultCrew `json:"runner_up"`
	TotalCrews int              `json:"total_crews"`
}

// ComboResult 一套起终点组合算出的全部组别成绩
type ComboResult struct {
	StartRace  string                         `json:"start_race"`
	FinishRace string                         `json:"finish_race"`
	Results    map[string]ComboCategoryResult `json:"results"`
}

// ResultsComparison 两套起终点组合的成绩并排对比
type ResultsComparison struct {
	Comparison1 ComboResult `json:"comparison1"`
	Comparison2 ComboResult `json:"comparison2"`
}

// CompareResults 用两套不同的起终点设备组合各算一遍成绩，核对名次是否稳定
func CompareResults(day *RaceDay, combo1, combo2 RaceCombo) (*ResultsComparison, error) {
	result1, err := comboResults(day, combo1)
	if err != nil {
		return nil, err
	}
	result2, err := comboResults(day, combo2)
	if err != nil {
		return nil, err
	}
	return &ResultsComparison{Comparison1: *result1, Comparison2: *result2}, nil
}

func comboResults(day *RaceDay, combo RaceCombo) (*ComboResult, error) {
	startRace, ok := day.RaceByID[combo.StartRaceID]
	if !ok {
		return nil, fmt.Errorf("unknown start race id %d", combo.StartRaceID)
	}
	finishRace, ok := day.RaceByID[combo.FinishRaceID]
	if !ok {
		return nil, fmt.Errorf("unknown finish race id %d", combo.FinishRaceID)
	}

	byBand := make(map[string][]ComboResultCrew)
	for _, crew := range day.Crews {
		if crew.DidNotStart || crew.DidNotFinish || crew.Disqualified {
			continue
		}
		start := resolveTap(crew, models.TapStart, startRace, day)
		finish := resolveTap(crew, models.TapFinish, finishRace, day)
		if start.tap == nil || finish.tap == nil {
			continue
		}

		raw := SynchronizedTime(finish.tap.TimeTap, finishRace, day) -
			SynchronizedTime(start.tap.TimeTap, startRace, day)
		if raw <= 0 {
			continue
		}
		raceTime := raw + int64(crew.Penalty)*1000 + crew.ManualOverrideTime()
		published := raceTime + crew.MastersAdjustment

		name := crew.CompetitorNames
		if name == "" {
			name = crew.Name
		}
		clubName := ""
		if crew.Club != nil {
			clubName = crew.Club.Name
		}
		band := EventBandName(crew)
		byBand[band] = append(byBand[band], ComboResultCrew{
			CrewID:          crew.ID,
			CrewName:        name,
			ClubName:        clubName,
			BibNumber:       crew.BibNumber,
			RawTimeMs:       raw,
			RaceTimeMs:      raceTime,
			PublishedTimeMs: published,
			FormattedTime:   utils.FormatMilliseconds(published),
			Penalty:         crew.Penalty,
		})
	}

	result := &ComboResult{
		StartRace:  startRace.Name,
		FinishRace: finishRace.Name,
		Results:    make(map[string]ComboCategoryResult),
	}
	for band, crews := range byBand {
		sort.Slice(crews, func(i, j int) bool { return crews[i].PublishedTimeMs < crews[j].PublishedTimeMs })
		cat := ComboCategoryResult{TotalCrews: len(crews), Winner: &crews[0]}
		if len(crews) > 1 {
			cat.RunnerUp = &crews[1]
		}
		result.Results[band] = cat
	}
	return result, nil
}

// racesWithBothTaps 同时出现过起点和终点打点的设备，按名称排序
func racesWithBothTaps(day *RaceDay, taps []models.RaceTime) []RaceRef {
	hasStart := make(map[uint32]bool)
	hasFinish := make(map[uint32]bool)
	for i := range taps {
		t := &taps[i]
		if t.RaceID == nil {
			continue
		}
		switch t.Tap {
		case models.TapStart:
			hasStart[*t.RaceID] = true
		case models.TapFinish:
			hasFinish[*t.RaceID] = true
		}
	}
	var races []RaceRef
	for id, race := range day.RaceByID {
		if hasStart[id] && hasFinish[id] {
			races = append(races, RaceRef{ID: race.ID, Name: race.Name, IsReference: race.IsTimingReference})
		}
	}
	sort.Slice(races, func(i, j int) bool { return races[i].Name < races[j].Name })
	return races
}

func raceRefIndex(races []RaceRef) map[uint32]RaceRef {
	index := make(map[uint32]RaceRef, len(races))
	for _, r := range races {
		index[r.ID] = r
	}
	return index
}

// sortableBib 没有号码布的船排到最后
func sortableBib(bib int) int {
	if bib == 0 {
		return 999999
	}
	return bib
}

func contains(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

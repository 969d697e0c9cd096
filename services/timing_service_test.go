// file: services/timing_service_test.go
package services

import (
	"testing"

	"github.com/sian-alcock/pairshead-2020/models"
)

// newTestDay 组一个最小可用的快照：一台起点设备、一台终点设备，终点为参考时钟
func newTestDay() *RaceDay {
	start := &models.Race{ID: 1, Name: "Start camera"}
	finish := &models.Race{ID: 2, Name: "Webscorer", IsTimingReference: true}
	start.DefaultStart = true
	finish.DefaultFinish = true

	return &RaceDay{
		TimesByCrew:    make(map[uint32][]models.RaceTime),
		DefaultStart:   start,
		DefaultFinish:  finish,
		RaceByID:       map[uint32]*models.Race{1: start, 2: finish},
		SyncByTarget:   make(map[uint32]*models.RaceTimingSync),
		EventOrders:    make(map[string]int),
		CategoryByCrew: make(map[uint32]string),
		Adjustments:    make(map[AdjustmentKey]int64),
	}
}

func raceID(id uint32) *uint32 { return &id }

func addTap(day *RaceDay, crewID uint32, role models.TapRole, race uint32, ms int64, seq int) {
	day.TimesByCrew[crewID] = append(day.TimesByCrew[crewID], models.RaceTime{
		Sequence: seq,
		Tap:      role,
		TimeTap:  ms,
		CrewID:   &crewID,
		RaceID:   raceID(race),
	})
}

func TestSynchronizedTime(t *testing.T) {
	day := newTestDay()
	day.SyncByTarget[1] = &models.RaceTimingSync{
		ReferenceRaceID: 2, TargetRaceID: 1, TimingOffsetMs: 1500,
	}

	// 参考时钟原样返回
	if got := SynchronizedTime(10000, day.RaceByID[2], day); got != 10000 {
		t.Errorf("reference clock: got %d, want 10000", got)
	}
	// 有同步记录加偏移
	if got := SynchronizedTime(10000, day.RaceByID[1], day); got != 11500 {
		t.Errorf("synced clock: got %d, want 11500", got)
	}
	// 没有同步记录视为已对齐
	other := &models.Race{ID: 9}
	if got := SynchronizedTime(10000, other, day); got != 10000 {
		t.Errorf("unsynced clock: got %d, want 10000", got)
	}
}

func TestDeriveTimesRawTime(t *testing.T) {
	day := newTestDay()
	crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
	day.Crews = []*models.Crew{crew}

	addTap(day, 7, models.TapStart, 1, 100000, 3)
	addTap(day, 7, models.TapFinish, 2, 161700, 3)
	// 起点设备慢 1500ms
	day.SyncByTarget[1] = &models.RaceTimingSync{
		ReferenceRaceID: 2, TargetRaceID: 1, TimingOffsetMs: -1500,
	}

	DeriveTimes(crew, day)

	// (161700) - (100000 - 1500) = 63200
	if crew.RawTime != 63200 {
		t.Errorf("RawTime = %d, want 63200", crew.RawTime)
	}
	// start/finish 字段存原始打点
	if crew.StartTime != 100000 || crew.FinishTime != 161700 {
		t.Errorf("StartTime/FinishTime = %d/%d, want 100000/161700", crew.StartTime, crew.FinishTime)
	}
	if crew.StartSequence != 3 || crew.FinishSequence != 3 {
		t.Errorf("sequences = %d/%d, want 3/3", crew.StartSequence, crew.FinishSequence)
	}
	if crew.InvalidTime != 0 {
		t.Errorf("InvalidTime = %d, want 0", crew.InvalidTime)
	}
	if crew.RaceTime != crew.RawTime {
		t.Errorf("RaceTime = %d, want %d", crew.RaceTime, crew.RawTime)
	}
	if crew.PublishedTime != crew.RaceTime {
		t.Errorf("PublishedTime = %d, want %d", crew.PublishedTime, crew.RaceTime)
	}
}

func TestDeriveTimesPenaltyAndOverride(t *testing.T) {
	day := newTestDay()
	crew := &models.Crew{
		ID:     7,
		Status: models.CrewStatusAccepted,
		// 10 秒罚时
		Penalty: 10,
		// 手工覆盖 1:03.45
		ManualOverrideMinutes:          1,
		ManualOverrideSeconds:          3,
		ManualOverrideHundredthsSecond: 45,
	}
	day.Crews = []*models.Crew{crew}
	addTap(day, 7, models.TapStart, 1, 100000, 1)
	addTap(day, 7, models.TapFinish, 2, 160000, 1)

	DeriveTimes(crew, day)

	if crew.RawTime != 60000 {
		t.Errorf("RawTime = %d, want 60000", crew.RawTime)
	}
	if crew.RaceTime != 70000 {
		t.Errorf("RaceTime = %d, want 70000", crew.RaceTime)
	}
	// published 用覆盖值 63450 + 罚秒 10000
	if crew.PublishedTime != 73450 {
		t.Errorf("PublishedTime = %d, want 73450", crew.PublishedTime)
	}
}

func TestDeriveTimesGlobalTimingOffset(t *testing.T) {
	cases := []struct {
		name     string
		offsetMs int64
		want     int64
	}{
		{"positive offset extends the time", 2000, 62000},
		{"negative offset shortens the time", -2000, 58000},
		{"zero offset leaves the time alone", 0, 60000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day := newTestDay()
			day.TimingOffsetMs = tc.offsetMs
			crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
			day.Crews = []*models.Crew{crew}
			addTap(day, 7, models.TapStart, 1, 100000, 1)
			addTap(day, 7, models.TapFinish, 2, 160000, 1)

			DeriveTimes(crew, day)
			if crew.RawTime != tc.want {
				t.Errorf("RawTime = %d, want %d", crew.RawTime, tc.want)
			}
			// 偏移只影响 raw_time，打点字段仍存原始值
			if crew.FinishTime != 160000 {
				t.Errorf("FinishTime = %d, want 160000", crew.FinishTime)
			}
		})
	}
}

func TestDeriveTimesStatusFlagsZeroRawTime(t *testing.T) {
	for _, flag := range []string{"dns", "dnf", "dsq"} {
		day := newTestDay()
		crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
		switch flag {
		case "dns":
			crew.DidNotStart = true
		case "dnf":
			crew.DidNotFinish = true
		case "dsq":
			crew.Disqualified = true
		}
		day.Crews = []*models.Crew{crew}
		addTap(day, 7, models.TapStart, 1, 100000, 1)
		addTap(day, 7, models.TapFinish, 2, 160000, 1)

		DeriveTimes(crew, day)
		if crew.RawTime != 0 {
			t.Errorf("%s: RawTime = %d, want 0", flag, crew.RawTime)
		}
	}
}

func TestDeriveTimesMissingTap(t *testing.T) {
	day := newTestDay()
	crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
	day.Crews = []*models.Crew{crew}
	addTap(day, 7, models.TapFinish, 2, 160000, 1)

	DeriveTimes(crew, day)
	if crew.RawTime != 0 {
		t.Errorf("RawTime = %d, want 0 when start tap missing", crew.RawTime)
	}
	if crew.InvalidTime != 0 {
		t.Errorf("InvalidTime = %d, want 0 for missing tap", crew.InvalidTime)
	}
}

func TestDeriveTimesDuplicateTaps(t *testing.T) {
	day := newTestDay()
	crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
	day.Crews = []*models.Crew{crew}
	addTap(day, 7, models.TapStart, 1, 100000, 1)
	addTap(day, 7, models.TapStart, 1, 101000, 2)
	addTap(day, 7, models.TapFinish, 2, 160000, 1)

	DeriveTimes(crew, day)
	// 重复打点：不挑其中一个，raw_time 归零并打 invalid 标记
	if crew.RawTime != 0 {
		t.Errorf("RawTime = %d, want 0 for duplicate start taps", crew.RawTime)
	}
	if crew.InvalidTime != 1 {
		t.Errorf("InvalidTime = %d, want 1", crew.InvalidTime)
	}
}

func TestDeriveTimesWrongRaceIgnored(t *testing.T) {
	day := newTestDay()
	crew := &models.Crew{ID: 7, Status: models.CrewStatusAccepted}
	day.Crews = []*models.Crew{crew}
	// 起点打点挂在终点设备上，按缺起点处理
	addTap(day, 7, models.TapStart, 2, 100000, 1)
	addTap(day, 7, models.TapFinish, 2, 160000, 1)

	DeriveTimes(crew, day)
	if crew.RawTime != 0 {
		t.Errorf("RawTime = %d, want 0 when start tap is on wrong race", crew.RawTime)
	}
}

func TestDeriveTimesRaceOverride(t *testing.T) {
	day := newTestDay()
	backup := &models.Race{ID: 3, Name: "Backup start"}
	day.RaceByID[3] = backup

	crew := &models.Crew{
		ID:                  7,
		Status:              models.CrewStatusAccepted,
		RaceStartOverrideID: raceID(3),
	}
	day.Crews = []*models.Crew{crew}
	// 默认起点设备上的打点应当被忽略
	addTap(day, 7, models.TapStart, 1, 99000, 1)
	addTap(day, 7, models.TapStart, 3, 100000, 1)
	addTap(day, 7, models.TapFinish, 2, 160000, 1)

	DeriveTimes(crew, day)
	if crew.RawTime != 60000 {
		t.Errorf("RawTime = %d, want 60000 from override race", crew.RawTime)
	}
}

func TestEventBandName(t *testing.T) {
	event := &models.Event{Name: "Op 2x", Gender: models.GenderOpen}
	band := &models.Band{Name: "Band 1"}

	crew := &models.Crew{Event: event, Band: band}
	if got := EventBandName(crew); got != "Op 2x Band 1" {
		t.Errorf("EventBandName = %q, want %q", got, "Op 2x Band 1")
	}

	crew.Band = nil
	if got := EventBandName(crew); got != "Op 2x" {
		t.Errorf("EventBandName = %q, want %q", got, "Op 2x")
	}

	// override_name 优先
	event.OverrideName = "Op MasA/B 2x"
	if got := EventBandName(crew); got != "Op MasA/B 2x" {
		t.Errorf("EventBandName = %q, want %q", got, "Op MasA/B 2x")
	}

	if got := EventBandName(&models.Crew{}); got != "" {
		t.Errorf("EventBandName without event = %q, want empty", got)
	}
}

// file: services/timing_service.go
package services

import (
	"github.com/sian-alcock/pairshead-2020/models"
)

// SynchronizedTime 把某计时设备的原始打点换算到参考时钟
// 参考设备原样返回；有同步记录加偏移；没有同步记录视为已对齐（既定策略，不报错）
func SynchronizedTime(rawMs int64, race *models.Race, day *RaceDay) int64 {
	if race == nil || race.IsTimingReference {
		return rawMs
	}
	if sync, ok := day.SyncByTarget[race.ID]; ok {
		return rawMs + sync.TimingOffsetMs
	}
	return rawMs
}

// resolvedTap 船只在某计时设备上唯一的打点
type resolvedTap struct {
	tap   *models.RaceTime
	count int // 该 (role, race) 组合命中的打点数
}

// resolveTap 找船只在指定设备上指定类型的打点
// 命中数 != 1 时 tap 为空，由调用方按 "成绩无效" 处理
func resolveTap(crew *models.Crew, role models.TapRole, race *models.Race, day *RaceDay) resolvedTap {
	if race == nil {
		return resolvedTap{}
	}
	var found *models.RaceTime
	count := 0
	times := day.TimesByCrew[crew.ID]
	for i := range times {
		t := &times[i]
		if t.Tap != role {
			continue
		}
		if t.RaceID == nil || *t.RaceID != race.ID {
			continue
		}
		count++
		found = t
	}
	if count != 1 {
		return resolvedTap{count: count}
	}
	return resolvedTap{tap: found, count: 1}
}

// DeriveTimes 计算一条船的全部计时字段（流水线第一段）
// event_band、船员姓名、起终点打点、raw_time、race_time、published_time
func DeriveTimes(crew *models.Crew, day *RaceDay) {
	crew.EventBand = EventBandName(crew)
	crew.CompetitorNames = models.JoinCompetitorNames(crew.Competitors)

	startRace := day.StartRaceFor(crew)
	finishRace := day.FinishRaceFor(crew)
	start := resolveTap(crew, models.TapStart, startRace, day)
	finish := resolveTap(crew, models.TapFinish, finishRace, day)

	// 重复打点标记，供 operator 报表定位
	crew.InvalidTime = 0
	if start.count > 1 || finish.count > 1 {
		crew.InvalidTime = 1
	}

	crew.StartTime, crew.StartSequence = 0, 0
	if start.tap != nil {
		crew.StartTime = start.tap.TimeTap
		crew.StartSequence = start.tap.Sequence
	}
	crew.FinishTime, crew.FinishSequence = 0, 0
	if finish.tap != nil {
		crew.FinishTime = finish.tap.TimeTap
		crew.FinishSequence = finish.tap.Sequence
	}

	crew.RawTime = rawTime(crew, start, finish, startRace, finishRace, day)
	crew.RaceTime = crew.RawTime + int64(crew.Penalty)*1000

	if override := crew.ManualOverrideTime(); override > 0 {
		crew.PublishedTime = override + int64(crew.Penalty)*1000
	} else {
		crew.PublishedTime = crew.RaceTime
	}
}

// rawTime 起终点打点都唯一且船只正常完赛时返回同步后的净耗时（含全局计时偏移），否则 0
// 缺省设备未配置、打点缺失/重复、DNS/DNF/DSQ 都按 0 处理，不是错误
func rawTime(crew *models.Crew, start, finish resolvedTap, startRace, finishRace *models.Race, day *RaceDay) int64 {
	if crew.DidNotStart || crew.DidNotFinish || crew.Disqualified {
		return 0
	}
	if start.tap == nil || finish.tap == nil {
		return 0
	}
	startSynced := SynchronizedTime(start.tap.TimeTap, startRace, day)
	finishSynced := SynchronizedTime(finish.tap.TimeTap, finishRace, day) + day.TimingOffsetMs
	return finishSynced - startSynced
}

// EventBandName 赛事名 + 分组名
func EventBandName(crew *models.Crew) string {
	if crew.Event == nil {
		return ""
	}
	name := crew.Event.OverrideName
	if name == "" {
		name = crew.Event.Name
	}
	if crew.Band != nil {
		return name + " " + crew.Band.Name
	}
	return name
}

// file: mappers/crew_mapper.go
package mappers

import (
	"strconv"

	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// CSV 导出行映射，格式和 BROE 回导模板保持一致

// MapCrewToResultRow 成绩导出行（回导 BROE 用）
func MapCrewToResultRow(crew *models.Crew) []string {
	// 有手工覆盖时间时导出覆盖值
	rawTime := crew.RawTime
	if crew.ManualOverrideTime() > 0 {
		rawTime = crew.ManualOverrideTime()
	}

	rank := ""
	if rawTime > 0 {
		rank = strconv.Itoa(crew.CategoryRank)
	} else {
		rank = "0"
	}

	band := ""
	if crew.Band != nil {
		band = crew.Band.Name
	}
	eventID, eventName := "", ""
	if crew.Event != nil {
		eventID = strconv.FormatUint(uint64(crew.EventID), 10)
		eventName = crew.Event.Name
	}
	clubName := ""
	if crew.Club != nil {
		clubName = crew.Club.Name
	}

	raceTime := "0"
	if adjusted := crew.MastersAdjustedTime(); adjusted > 0 {
		raceTime = utils.FormatMilliseconds(adjusted)
	} else if crew.PublishedTime > 0 {
		raceTime = utils.FormatMilliseconds(crew.PublishedTime)
	}

	return []string{
		strconv.FormatUint(uint64(crew.ID), 10),
		eventID,
		eventName,
		band,
		"", // Division
		crew.Name,
		clubName,
		rank,
		utils.FormatMilliseconds(rawTime),
		raceTime,
		crew.StatusLabel(),
	}
}

// MapCrewToBibRow 号码布导出行
func MapCrewToBibRow(crew *models.Crew) []string {
	return []string{
		strconv.FormatUint(uint64(crew.ID), 10),
		crew.Name,
		strconv.Itoa(crew.CalculatedStartOrder),
	}
}

// MapCrewToStartOrderRow 出发顺序导出行
func MapCrewToStartOrderRow(crew *models.Crew, divisions []models.MarshallingDivision, locations map[string]string) []string {
	clubName := ""
	if crew.Club != nil {
		clubName = crew.Club.Name
	}
	hostClub := ""
	if crew.HostClub != nil {
		hostClub = crew.HostClub.Name
	}

	numberLocation := "⚠️ Missing number location!"
	if loc, ok := locations[hostClub]; ok {
		numberLocation = loc
	}

	// 列队分区优先按 bib 匹配，没有 bib 用计算出的出发序号
	division := ""
	if crew.BibNumber > 0 {
		division = models.DivisionForNumber(divisions, crew.BibNumber)
	} else if crew.CalculatedStartOrder > 0 && crew.CalculatedStartOrder != models.StartOrderSentinel {
		division = models.DivisionForNumber(divisions, crew.CalculatedStartOrder)
	}

	timeOnly := ""
	if crew.TimeOnly {
		timeOnly = "TO"
	}

	bladeImage := ""
	if crew.Club != nil && crew.Club.BladeImage != "" {
		bladeImage = `=IMAGE("` + crew.Club.BladeImage + `")`
	}

	return []string{
		string(crew.Status),
		strconv.Itoa(crew.BibNumber),
		crew.DisplayName(),
		clubName,
		bladeImage,
		crew.CompositeCode,
		crew.EventBand,
		hostClub,
		numberLocation,
		division,
		timeOnly,
	}
}

// MapCrewToWebscorerRow Webscorer 导入格式行
func MapCrewToWebscorerRow(crew *models.Crew) []string {
	indexCode, clubName := "", ""
	if crew.Club != nil {
		indexCode = crew.Club.IndexCode
		clubName = crew.Club.Name
	}

	name := indexCode + " - " + crew.Name
	if crew.CompetitorNames != "" {
		parts := crew.CompetitorNames
		if idx := lastSlash(parts); idx >= 0 {
			parts = parts[idx+1:]
		}
		name = indexCode + " - " + parts
	}

	return []string{
		name,
		clubName,
		strconv.FormatUint(uint64(crew.ID), 10),
		crew.EventBand,
		strconv.Itoa(crew.BibNumber),
		string(crew.Status),
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// file: controllers/report_controller.go
package controllers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/dto"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

const reportCacheTTL = 5 * time.Minute

// cachedReport 报表结果先查 Redis，键统一带 results: 前缀，重算时整批失效
func cachedReport(c *gin.Context, key string, build func() (interface{}, error)) {
	if cached, err := database.RDB.Get(database.Ctx, key).Result(); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	report, err := build()
	if err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	body, err := json.Marshal(utils.Response{Code: 0, Msg: "success", Data: report})
	if err != nil {
		utils.Error(c, 5000, "序列化失败")
		return
	}
	database.RDB.Set(database.Ctx, key, body, reportCacheTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetDashboardStats 赛事数据总览
func GetDashboardStats(c *gin.Context) {
	cachedReport(c, "results:dashboard", func() (interface{}, error) {
		var stats dto.DashboardStats
		if err := database.DB.Model(&models.OriginalEventCategory{}).
			Count(&stats.OriginalEventCategoriesImported).Error; err != nil {
			return nil, err
		}
		database.DB.Model(&models.Race{}).Count(&stats.RacesCount)
		database.DB.Model(&models.Crew{}).Where("status = ?", models.CrewStatusAccepted).Count(&stats.CrewsCount)
		database.DB.Model(&models.RaceTime{}).Count(&stats.RaceTimesCount)
		database.DB.Model(&models.Crew{}).
			Where("status = ? AND masters_adjustment > 0", models.CrewStatusAccepted).
			Count(&stats.MastersCrewsCount)

		settings, err := models.LoadGlobalSettings(database.DB)
		if err == nil && settings.BroeDataLastUpdate != nil {
			stats.LastUpdated = settings.BroeDataLastUpdate.Format(time.RFC3339)
		}
		return stats, nil
	})
}

// CheckStartOrderDuplicates 出发序号查重，序号正常情况下全场唯一
func CheckStartOrderDuplicates(c *gin.Context) {
	cachedReport(c, "results:start-order-duplicates", func() (interface{}, error) {
		var crews []models.Crew
		if err := database.DB.Preload("Club").
			Where("status = ? AND calculated_start_order <> ?",
				models.CrewStatusAccepted, models.StartOrderSentinel).
			Find(&crews).Error; err != nil {
			return nil, err
		}

		byOrder := make(map[int][]dto.DuplicateStartOrderCrew)
		for _, crew := range crews {
			club := ""
			if crew.Club != nil {
				club = crew.Club.Name
			}
			byOrder[crew.CalculatedStartOrder] = append(byOrder[crew.CalculatedStartOrder],
				dto.DuplicateStartOrderCrew{
					ID:                   crew.ID,
					Name:                 crew.Name,
					Club:                 club,
					EventBand:            crew.EventBand,
					CalculatedStartOrder: crew.CalculatedStartOrder,
				})
		}

		report := dto.DuplicateStartOrderReport{
			Duplicates: make(map[int][]dto.DuplicateStartOrderCrew),
		}
		report.Summary.TotalAcceptedCrews = len(crews)
		report.Summary.UniqueStartOrders = len(byOrder)
		for order, group := range byOrder {
			if len(group) > 1 {
				report.Duplicates[order] = group
				report.Summary.DuplicateStartOrders++
				report.Summary.CrewsWithDuplicates += len(group)
			}
		}
		report.HasDuplicates = report.Summary.DuplicateStartOrders > 0
		return report, nil
	})
}

// GetMissingTimesReport 缺打点的 Accepted 船只清单
func GetMissingTimesReport(c *gin.Context) {
	cachedReport(c, "results:missing-times", func() (interface{}, error) {
		var crews []models.Crew
		if err := database.DB.Preload("Club").
			Where("status = ?", models.CrewStatusAccepted).
			Order("bib_number asc").Find(&crews).Error; err != nil {
			return nil, err
		}

		report := dto.MissingTimesReport{CrewsMissingTimes: []dto.MissingTimeCrew{}}
		report.Summary.TotalCrewsChecked = len(crews)
		for _, crew := range crews {
			// DNS/DNF/DSQ 本来就没有完整打点，不算缺
			if crew.DidNotStart || crew.DidNotFinish || crew.Disqualified {
				continue
			}
			missingStart := crew.StartTime == 0
			missingFinish := crew.FinishTime == 0
			if !missingStart && !missingFinish {
				continue
			}
			club := ""
			if crew.Club != nil {
				club = crew.Club.Name
			}
			entry := dto.MissingTimeCrew{
				CrewID:        crew.ID,
				Name:          crew.DisplayName(),
				Club:          club,
				BibNumber:     crew.BibNumber,
				StartTime:     crew.StartTime,
				FinishTime:    crew.FinishTime,
				MissingStart:  missingStart,
				MissingFinish: missingFinish,
				MissingBoth:   missingStart && missingFinish,
				Status:        crew.StatusLabel(),
			}
			report.CrewsMissingTimes = append(report.CrewsMissingTimes, entry)
			switch {
			case entry.MissingBoth:
				report.Summary.MissingBoth++
			case missingStart:
				report.Summary.MissingStartOnly++
			default:
				report.Summary.MissingFinishOnly++
			}
		}
		report.Summary.TotalCrewsMissingTimes = len(report.CrewsMissingTimes)
		return report, nil
	})
}

// GetCloseFinishReport 一二名差距报表，全场一条加每个 event_band 一条
func GetCloseFinishReport(c *gin.Context) {
	cachedReport(c, "results:close-finishes", func() (interface{}, error) {
		var crews []models.Crew
		if err := database.DB.Preload("Club").
			Where("status = ? AND published_time > 0 AND time_only = ?",
				models.CrewStatusAccepted, false).
			Where("did_not_start = ? AND did_not_finish = ? AND disqualified = ?",
				false, false, false).
			Find(&crews).Error; err != nil {
			return nil, err
		}

		report := dto.CloseFinishReport{Categories: []dto.CloseFinish{}}
		if overall := closeFinishFor(crews, ""); overall != nil {
			report.Overall = overall
			report.OverallIsClose = overall.Closeness != ""
		}

		byBand := make(map[string][]models.Crew)
		for _, crew := range crews {
			if crew.EventBand != "" {
				byBand[crew.EventBand] = append(byBand[crew.EventBand], crew)
			}
		}
		bands := make([]string, 0, len(byBand))
		for band := range byBand {
			bands = append(bands, band)
		}
		sort.Strings(bands)

		for _, band := range bands {
			finish := closeFinishFor(byBand[band], band)
			if finish == nil {
				continue
			}
			report.TotalCategories++
			switch finish.Closeness {
			case "Very close":
				report.VeryCloseCount++
				report.Categories = append(report.Categories, *finish)
			case "Close":
				report.CloseCount++
				report.Categories = append(report.Categories, *finish)
			}
		}
		return report, nil
	})
}

// closeFinishFor 组内按类别位次时间取前两名，差距 1 秒内算 Very close，2 秒内算 Close
func closeFinishFor(crews []models.Crew, band string) *dto.CloseFinish {
	if len(crews) < 2 {
		return nil
	}
	sorted := make([]models.Crew, len(crews))
	copy(sorted, crews)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CategoryPositionTime < sorted[j].CategoryPositionTime
	})

	first, second := sorted[0], sorted[1]
	diff := float64(second.CategoryPositionTime-first.CategoryPositionTime) / 1000.0

	finish := &dto.CloseFinish{
		EventBand:      band,
		FirstPlace:     closePlacing(first),
		SecondPlace:    closePlacing(second),
		TimeDifference: diff,
	}
	switch {
	case diff <= 1.0:
		finish.Closeness = "Very close"
	case diff <= 2.0:
		finish.Closeness = "Close"
	}
	return finish
}

func closePlacing(crew models.Crew) dto.ClosePlacing {
	club := ""
	if crew.Club != nil {
		club = crew.Club.Name
	}
	return dto.ClosePlacing{
		CompetitorNames: crew.DisplayName(),
		BibNumber:       crew.BibNumber,
		ClubName:        club,
		PublishedTime:   crew.PublishedTime,
	}
}

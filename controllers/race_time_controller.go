// file: controllers/race_time_controller.go
package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/dto"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/services"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// GetRaceTimeList 打点列表，按 tap 类型过滤，支持未分配/成绩无效筛选
func GetRaceTimeList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	db := database.DB.Model(&models.RaceTime{}).
		Preload("Crew").Preload("Race")

	if tap := c.Query("tap"); tap != "" {
		db = db.Where("tap = ?", tap)
	}
	if raceID := c.Query("race_id"); raceID != "" {
		db = db.Where("race_id = ?", raceID)
	}
	if c.Query("noCrew") == "true" {
		db = db.Where("crew_id IS NULL")
	}
	if c.Query("crewInvalidTimes") == "true" {
		db = db.Joins("JOIN pairshead_crew cr ON cr.id = pairshead_race_time.crew_id").
			Where("cr.invalid_time = 1")
	}

	var total int64
	db.Count(&total)

	var times []models.RaceTime
	if err := db.Order("sequence asc").
		Offset((page - 1) * limit).Limit(limit).Find(&times).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	// 未分配打点统计，对账面板用
	var startNoCrew, finishNoCrew int64
	database.DB.Model(&models.RaceTime{}).
		Where("tap = ? AND crew_id IS NULL", models.TapStart).Count(&startNoCrew)
	database.DB.Model(&models.RaceTime{}).
		Where("tap = ? AND crew_id IS NULL", models.TapFinish).Count(&finishNoCrew)

	utils.Success(c, "success", gin.H{
		"total":                total,
		"page":                 page,
		"race_times":           times,
		"start_times_no_crew":  startNoCrew,
		"finish_times_no_crew": finishNoCrew,
	})
}

func GetRaceTimeDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的打点ID")
		return
	}
	var raceTime models.RaceTime
	if err := database.DB.Preload("Crew").Preload("Race").First(&raceTime, id).Error; err != nil {
		utils.Error(c, 4004, "打点记录不存在")
		return
	}
	utils.Success(c, "success", raceTime)
}

// UpdateRaceTime 改打点归属（对号）或修正打点内容，随后全量重算
func UpdateRaceTime(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的打点ID")
		return
	}
	var raceTime models.RaceTime
	if err := database.DB.First(&raceTime, id).Error; err != nil {
		utils.Error(c, 4004, "打点记录不存在")
		return
	}

	var req struct {
		Sequence  *int    `json:"sequence"`
		BibNumber *int    `json:"bib_number"`
		Tap       *string `json:"tap"`
		TimeTap   *int64  `json:"time_tap"`
		CrewID    *uint32 `json:"crew_id"`
		SetCrew   bool    `json:"set_crew"`
		RaceID    *uint32 `json:"race_id"`
		SetRace   bool    `json:"set_race"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Sequence != nil {
		updates["sequence"] = *req.Sequence
	}
	if req.BibNumber != nil {
		updates["bib_number"] = *req.BibNumber
	}
	if req.Tap != nil {
		if role := models.TapRole(*req.Tap); role != models.TapStart && role != models.TapFinish {
			utils.Error(c, 1001, "tap 只能是 Start 或 Finish")
			return
		}
		updates["tap"] = *req.Tap
	}
	if req.TimeTap != nil {
		updates["time_tap"] = *req.TimeTap
	}
	if req.SetCrew {
		// crew_id 可以置空，未分配的打点等待人工对号
		if req.CrewID != nil {
			var crew models.Crew
			if err := database.DB.First(&crew, *req.CrewID).Error; err != nil {
				utils.Error(c, 4004, "船只不存在")
				return
			}
		}
		updates["crew_id"] = req.CrewID
	}
	if req.SetRace {
		updates["race_id"] = req.RaceID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&raceTime).Updates(updates).Error; err != nil {
			utils.Error(c, 5000, "数据库错误: "+err.Error())
			return
		}
	}

	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Race time updated successfully", nil)
}

func DeleteRaceTime(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.RaceTime{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Race time deleted successfully", nil)
}

// ImportRaceTimesCSV 导入一路计时设备的打点 CSV，整批替换该设备的旧打点
// 列：sequence, bib, _, tap, time_tap, ..., crew_id(第9列，可空)
// time_tap 接受毫秒数或 h:mm:ss.ff 时间串
func ImportRaceTimesCSV(c *gin.Context) {
	raceIDParam := c.Query("race_id")
	if raceIDParam == "" {
		utils.Error(c, 1001, "race_id is required")
		return
	}
	raceID, err := strconv.Atoi(raceIDParam)
	if err != nil {
		utils.Error(c, 1002, "无效的设备ID")
		return
	}
	var race models.Race
	if err := database.DB.First(&race, raceID).Error; err != nil {
		utils.Error(c, 4004, "计时设备不存在")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 1001, "缺少上传文件")
		return
	}
	rows, err := readCSVUpload(fileHeader)
	if err != nil {
		utils.Error(c, 1001, err.Error())
		return
	}

	batchID := uuid.NewString()
	summary := &dto.ImportSummary{}

	// 替换放在一个事务里，读侧看不到半换完的表
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("race_id = ?", race.ID).Delete(&models.RaceTime{}).Error; err != nil {
			return err
		}

		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 5 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected at least 5 columns, got %d", len(row)))
				continue
			}

			sequence, err := strconv.Atoi(strings.TrimSpace(row[0]))
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid sequence %q", row[0]))
				continue
			}

			tap := models.TapRole(strings.TrimSpace(row[3]))
			if tap == "" {
				tap = models.TapFinish
			}
			if tap != models.TapStart && tap != models.TapFinish {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid tap %q", row[3]))
				continue
			}

			timeTap, err := parseTapTime(strings.TrimSpace(row[4]))
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid time %q", row[4]))
				continue
			}

			raceTime := models.RaceTime{
				Sequence:      sequence,
				Tap:           tap,
				TimeTap:       timeTap,
				RaceID:        &race.ID,
				ImportBatchID: batchID,
			}
			if bibStr := columnAt(row, 1); bibStr != "" {
				if bib, err := strconv.Atoi(bibStr); err == nil {
					raceTime.BibNumber = bib
				}
			}
			if crewStr := columnAt(row, 8); crewStr != "" {
				crewID, err := strconv.ParseUint(crewStr, 10, 32)
				if err != nil {
					summary.Errors = append(summary.Errors, rowError(rowNum, "invalid crew id %q", crewStr))
					continue
				}
				id := uint32(crewID)
				raceTime.CrewID = &id
			}

			if err := tx.Create(&raceTime).Error; err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "%v", err))
				continue
			}
			summary.Created++
		}
		return nil
	})
	if err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}

	msg := "Race times imported"
	if summary.HasErrors() {
		msg = "Race times imported with errors"
	}
	utils.Success(c, msg, gin.H{
		"import_batch_id": batchID,
		"summary":         summary,
	})
}

// parseTapTime 兼容两种打点时间格式：毫秒整数或时间串
func parseTapTime(value string) (int64, error) {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms, nil
	}
	return utils.ParseTimeToMilliseconds(value)
}

func columnAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// file: controllers/crew_controller.go
package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/dto"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/services"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// GetCrewList 分页船只列表，带搜索/筛选/排序和聚合块
func GetCrewList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	db := database.DB.Model(&models.Crew{}).
		Preload("Club").Preload("Event").Preload("Band").Preload("HostClub")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		db = db.Where(
			"name LIKE ? OR event_band LIKE ? OR competitor_names LIKE ? OR CAST(id AS CHAR) LIKE ? OR CAST(bib_number AS CHAR) LIKE ?",
			like, like, like, like, like,
		)
	}

	if statusList := c.QueryArray("status[]"); len(statusList) > 0 {
		db = db.Where("status IN ?", statusList)
	}

	// 缺打点的 Accepted 船只
	if c.Query("missing_times") == "true" {
		db = db.Where("status = ?", models.CrewStatusAccepted).
			Where("start_time = 0 OR finish_time = 0")
	}

	// 成绩页只要有已发布时间且未被取消资格的船
	if c.Query("results_only") == "true" {
		db = db.Where("published_time > 0").
			Where("disqualified = ? AND did_not_start = ? AND did_not_finish = ?", false, false, false)
	}

	if gender := c.Query("gender"); gender != "" && gender != "all" {
		db = db.Joins("JOIN pairshead_event e ON e.id = pairshead_crew.event_id").
			Where("e.gender = ?", gender)
	}

	if c.Query("masters") == "true" {
		db = db.Where("masters_adjustment > 0")
	}
	if c.Query("first_second_only") == "true" {
		db = db.Where("category_rank > 0 AND category_rank <= 2")
	}

	order := c.DefaultQuery("order", c.DefaultQuery("ordering", "overall_rank"))
	db = db.Order(crewOrderClause(order))

	var total int64
	db.Count(&total)

	var crews []models.Crew
	if err := db.Offset((page - 1) * limit).Limit(limit).Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	utils.Success(c, "success", gin.H{
		"total":      total,
		"page":       page,
		"crews":      crews,
		"aggregates": crewListAggregates(),
	})
}

// crewOrderClause 把排序参数映射到固定的 ORDER BY 子句
// 用户输入永远不直接拼 SQL，没见过的值一律落到 overall_rank
func crewOrderClause(order string) string {
	switch order {
	case "bib_number":
		return "bib_number asc"
	case "crew":
		return "name asc"
	case "club":
		return "club_id asc, name asc"
	case "event_band":
		return "event_band asc"
	case "raw_time":
		return "raw_time asc"
	case "published_time":
		return "published_time asc"
	case "masters_adjusted_time":
		return "masters_adjustment asc"
	case "gender_rank":
		return "gender_rank asc"
	case "category_rank":
		return "category_rank asc"
	case "start-score":
		return "draw_start_score asc"
	case "calculated_start_order":
		return "calculated_start_order asc"
	case "start_sequence":
		return "start_sequence asc"
	case "finish_sequence":
		return "finish_sequence asc"
	default:
		return "overall_rank asc"
	}
}

// crewListAggregates 列表附带的统计块，前端仪表盘直接消费
func crewListAggregates() dto.CrewListAggregates {
	var agg dto.CrewListAggregates
	// 每个计数都从干净的查询链开始，避免条件互相污染
	crews := func() *gorm.DB { return database.DB.Model(&models.Crew{}) }

	crews().Where("status = ?", models.CrewStatusScratched).Count(&agg.NumScratchedCrews)
	crews().Where("status = ?", models.CrewStatusAccepted).Count(&agg.NumAcceptedCrews)
	crews().Where("status = ? AND start_time = 0", models.CrewStatusAccepted).Count(&agg.NumAcceptedCrewsNoStart)
	crews().Where("status = ? AND finish_time = 0", models.CrewStatusAccepted).Count(&agg.NumAcceptedCrewsNoFinish)
	crews().Where("status = ? AND masters_adjustment > 0", models.CrewStatusAccepted).Count(&agg.NumCrewsMastersAdjusted)
	crews().Where("status = ? AND event_band LIKE '%/%' AND raw_time > 0", models.CrewStatusAccepted).Count(&agg.NumCrewsRequireMasters)
	crews().Where("status = ? AND requires_recalculation = ?", models.CrewStatusAccepted, true).Count(&agg.RequiresRankingUpdate)

	agg.FastestOpen2xTime = fastestRawTime("Op%", "%2x%")
	agg.FastestFemale2xTime = fastestRawTime("W%", "%2x%")
	agg.FastestOpenSweepTime = fastestRawTime("Op%", "%2-%")
	agg.FastestFemaleSweepTime = fastestRawTime("W%", "%2-%")
	agg.FastestMixed2xTime = fastestRawTime("Mx%", "%2x%")
	return agg
}

func fastestRawTime(prefix, contains string) int64 {
	var fastest int64
	database.DB.Model(&models.Crew{}).
		Where("event_band LIKE ? AND event_band LIKE ? AND raw_time > 0", prefix, contains).
		Select("COALESCE(MIN(raw_time), 0)").Scan(&fastest)
	return fastest
}

func GetCrewDetail(c *gin.Context) {
	crewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的船只ID")
		return
	}

	var crew models.Crew
	if err := database.DB.
		Preload("Club").Preload("HostClub").Preload("Event").Preload("Band").
		Preload("Competitors").Preload("Times").Preload("Times.Race").
		First(&crew, crewID).Error; err != nil {
		utils.Error(c, 4004, "船只不存在")
		return
	}
	utils.Success(c, "success", crew)
}

// UpdateCrew 更新人工录入字段（罚秒、手工覆盖时间、状态旗标等），随后全量重算
func UpdateCrew(c *gin.Context) {
	crewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的船只ID")
		return
	}

	var crew models.Crew
	if err := database.DB.First(&crew, crewID).Error; err != nil {
		utils.Error(c, 4004, "船只不存在")
		return
	}

	var req struct {
		Penalty                        *int    `json:"penalty"`
		ManualOverrideMinutes          *int    `json:"manual_override_minutes"`
		ManualOverrideSeconds          *int    `json:"manual_override_seconds"`
		ManualOverrideHundredthsSecond *int    `json:"manual_override_hundredths_seconds"`
		BibNumber                      *int    `json:"bib_number"`
		Status                         *string `json:"status"`
		TimeOnly                       *bool   `json:"time_only"`
		DidNotStart                    *bool   `json:"did_not_start"`
		DidNotFinish                   *bool   `json:"did_not_finish"`
		Disqualified                   *bool   `json:"disqualified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if req.Penalty != nil {
		crew.Penalty = *req.Penalty
	}
	if req.ManualOverrideMinutes != nil {
		crew.ManualOverrideMinutes = *req.ManualOverrideMinutes
	}
	if req.ManualOverrideSeconds != nil {
		crew.ManualOverrideSeconds = *req.ManualOverrideSeconds
	}
	if req.ManualOverrideHundredthsSecond != nil {
		crew.ManualOverrideHundredthsSecond = *req.ManualOverrideHundredthsSecond
	}
	if req.BibNumber != nil {
		crew.BibNumber = *req.BibNumber
	}
	if req.Status != nil {
		crew.Status = models.CrewStatus(*req.Status)
	}
	if req.TimeOnly != nil {
		crew.TimeOnly = *req.TimeOnly
	}
	if req.DidNotStart != nil {
		crew.DidNotStart = *req.DidNotStart
	}
	if req.DidNotFinish != nil {
		crew.DidNotFinish = *req.DidNotFinish
	}
	if req.Disqualified != nil {
		crew.Disqualified = *req.Disqualified
	}
	crew.RequiresRecalculation = true

	if err := database.DB.Save(&crew).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	// 人工字段影响整个排名，单船编辑也要全量重算
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Crew updated successfully", nil)
}

func DeleteCrew(c *gin.Context) {
	crewID, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.Crew{}, crewID).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Crew deleted successfully", nil)
}

// BulkUpdateCrewOverrides 批量设置船只的起终点计时设备覆盖
func BulkUpdateCrewOverrides(c *gin.Context) {
	var req dto.CrewOverrideBulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if len(req.Updates) == 0 {
		utils.Error(c, 1001, "No updates provided")
		return
	}

	updatedIDs := make([]uint32, 0, len(req.Updates))
	for _, update := range req.Updates {
		if update.CrewID == 0 {
			continue
		}
		var crew models.Crew
		if err := database.DB.First(&crew, update.CrewID).Error; err != nil {
			utils.Error(c, 4004, "船只不存在: "+strconv.FormatUint(uint64(update.CrewID), 10))
			return
		}
		changes := map[string]interface{}{}
		if update.SetStart {
			changes["race_start_override_id"] = update.RaceStartOverrideID
		}
		if update.SetFinish {
			changes["race_finish_override_id"] = update.RaceFinishOverrideID
		}
		if len(changes) == 0 {
			continue
		}
		if err := database.DB.Model(&crew).Updates(changes).Error; err != nil {
			utils.Error(c, 5000, "数据库错误: "+err.Error())
			return
		}
		updatedIDs = append(updatedIDs, update.CrewID)
	}

	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Crew overrides updated", gin.H{
		"updated_count":    len(updatedIDs),
		"updated_crew_ids": updatedIDs,
	})
}

// RecalculateRankings 全量重算成绩与排名
func RecalculateRankings(c *gin.Context) {
	result, err := services.RecalculateAll()
	if err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Rankings recalculated", result)
}

// RecalculateStartOrders 重算出发顺序（独立批次）
func RecalculateStartOrders(c *gin.Context) {
	result, err := services.RecalculateStartOrders()
	if err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Start orders recalculated", result)
}

// ImportCrewsFromBROE 从 British Rowing API 拉取报名数据
func ImportCrewsFromBROE(c *gin.Context) {
	personal := c.Query("personal") == "1" || c.Query("personal") == "true"

	imported, err := services.ImportCrewsFromBROE(personal)
	if err != nil {
		utils.Error(c, 5003, "BROE import failed: "+err.Error())
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Crews imported from BROE", gin.H{"imported": imported})
}

// ImportPenaltiesCSV 按 bib 匹配导入罚秒/状态旗标，逐行报错不中断
// 格式：bib_number,penalty,time_only,did_not_start,did_not_finish,disqualified
func ImportPenaltiesCSV(c *gin.Context) {
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

	summary := &dto.ImportSummary{}
	for i, row := range rows {
		rowNum := i + 2
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			summary.Errors = append(summary.Errors, rowError(rowNum, "Bib number is required"))
			continue
		}
		bib, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "Invalid bib number %q", row[0]))
			continue
		}

		penalty := 0
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			penalty, err = strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "Invalid penalty format"))
				continue
			}
		}
		boolAt := func(idx int) bool {
			return len(row) > idx && strings.EqualFold(strings.TrimSpace(row[idx]), "true")
		}

		var crew models.Crew
		if err := database.DB.Where("bib_number = ?", bib).First(&crew).Error; err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "Crew with bib number %d not found", bib))
			continue
		}

		updates := map[string]interface{}{
			"penalty":                penalty,
			"time_only":              boolAt(2),
			"did_not_start":          boolAt(3),
			"did_not_finish":         boolAt(4),
			"disqualified":           boolAt(5),
			"requires_recalculation": true,
		}
		if err := database.DB.Model(&crew).Updates(updates).Error; err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "%v", err))
			continue
		}
		summary.Updated++
	}

	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}

	if summary.HasErrors() {
		utils.Success(c, "CSV import completed with errors", summary)
		return
	}
	utils.Success(c, "CSV import completed", summary)
}

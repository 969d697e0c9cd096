// file: controllers/masters_controller.go
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

func GetMastersAdjustmentList(c *gin.Context) {
	var adjustments []models.MastersAdjustment
	if err := database.DB.Order("standard_time_ms asc, master_category asc").
		Find(&adjustments).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", adjustments)
}

// ImportMastersAdjustmentsCSV 导入 masters 让时查表，整表替换
// 列：standard_time(如 "16:00")，master_category(如 "MasC")，adjustment(时间串)
func ImportMastersAdjustmentsCSV(c *gin.Context) {
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
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.MastersAdjustment{}).Error; err != nil {
			return err
		}
		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 3 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected 3 columns, got %d", len(row)))
				continue
			}
			label := strings.TrimSpace(row[0])
			standardMs, err := utils.ParseTimeToMilliseconds(label)
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid standard time %q", row[0]))
				continue
			}
			category := strings.TrimSpace(row[1])
			if category == "" {
				summary.Errors = append(summary.Errors, rowError(rowNum, "empty master category"))
				continue
			}
			adjustmentMs, err := utils.ParseTimeToMilliseconds(strings.TrimSpace(row[2]))
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid adjustment %q", row[2]))
				continue
			}
			adjustment := models.MastersAdjustment{
				StandardTimeLabel:      label,
				StandardTimeMs:         standardMs,
				MasterCategory:         category,
				MasterTimeAdjustmentMs: adjustmentMs,
			}
			if err := tx.Create(&adjustment).Error; err != nil {
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

	msg := "Masters adjustments imported"
	if summary.HasErrors() {
		msg = "Masters adjustments imported with errors"
	}
	utils.Success(c, msg, summary)
}

func GetOriginalEventCategoryList(c *gin.Context) {
	var categories []models.OriginalEventCategory
	if err := database.DB.Preload("Crew").Order("id asc").Find(&categories).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", categories)
}

// ImportOriginalEventCategoriesCSV 导入船只重分组前的原始类别码，整表替换
// 列：crew_id, event_original
func ImportOriginalEventCategoriesCSV(c *gin.Context) {
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
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OriginalEventCategory{}).Error; err != nil {
			return err
		}
		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 2 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected 2 columns, got %d", len(row)))
				continue
			}
			crewID, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 32)
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid crew id %q", row[0]))
				continue
			}
			eventOriginal := strings.TrimSpace(row[1])
			if eventOriginal == "" {
				summary.Errors = append(summary.Errors, rowError(rowNum, "empty original category"))
				continue
			}
			var crew models.Crew
			if err := tx.First(&crew, uint32(crewID)).Error; err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "crew %d not found", crewID))
				continue
			}
			id := uint32(crewID)
			record := models.OriginalEventCategory{
				CrewID:        &id,
				EventOriginal: eventOriginal,
			}
			if err := tx.Create(&record).Error; err != nil {
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

	// 原始类别变了，masters 门控和让时都要重推
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}

	msg := "Original event categories imported"
	if summary.HasErrors() {
		msg = "Original event categories imported with errors"
	}
	utils.Success(c, msg, summary)
}

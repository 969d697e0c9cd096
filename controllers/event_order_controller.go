// file: controllers/event_order_controller.go
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

func GetEventOrderList(c *gin.Context) {
	var orders []models.EventOrder
	if err := database.DB.Order("event_order asc").Find(&orders).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", orders)
}

// ImportEventOrderCSV 导入 event_band 到抽签基数的映射，整表替换
// 列：event, event_order
func ImportEventOrderCSV(c *gin.Context) {
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
		if err := tx.Where("1 = 1").Delete(&models.EventOrder{}).Error; err != nil {
			return err
		}
		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 2 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected 2 columns, got %d", len(row)))
				continue
			}
			event := strings.TrimSpace(row[0])
			if event == "" {
				summary.Errors = append(summary.Errors, rowError(rowNum, "empty event"))
				continue
			}
			order, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid event order %q", row[1]))
				continue
			}
			if err := tx.Create(&models.EventOrder{Event: event, EventOrder: order}).Error; err != nil {
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

	// 抽签基数变了，出发序号要重算
	if _, err := services.RecalculateStartOrders(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}

	msg := "Event order imported"
	if summary.HasErrors() {
		msg = "Event order imported with errors"
	}
	utils.Success(c, msg, summary)
}

func DeleteEventOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.EventOrder{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if _, err := services.RecalculateStartOrders(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Event order deleted successfully", nil)
}

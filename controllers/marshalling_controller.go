// file: controllers/marshalling_controller.go
package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/dto"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

func GetMarshallingDivisionList(c *gin.Context) {
	var divisions []models.MarshallingDivision
	if err := database.DB.Order("bottom_range asc").Find(&divisions).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", divisions)
}

func CreateMarshallingDivision(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		BottomRange int    `json:"bottom_range"`
		TopRange    int    `json:"top_range"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.BottomRange > req.TopRange {
		utils.Error(c, 1001, "号码段上下界颠倒")
		return
	}
	division := models.MarshallingDivision{
		Name:        req.Name,
		BottomRange: req.BottomRange,
		TopRange:    req.TopRange,
	}
	if err := database.DB.Create(&division).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Marshalling division created successfully", division)
}

func UpdateMarshallingDivision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的分区ID")
		return
	}
	var division models.MarshallingDivision
	if err := database.DB.First(&division, id).Error; err != nil {
		utils.Error(c, 4004, "列队分区不存在")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		BottomRange *int    `json:"bottom_range"`
		TopRange    *int    `json:"top_range"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.Name != nil {
		division.Name = *req.Name
	}
	if req.BottomRange != nil {
		division.BottomRange = *req.BottomRange
	}
	if req.TopRange != nil {
		division.TopRange = *req.TopRange
	}
	if division.BottomRange > division.TopRange {
		utils.Error(c, 1001, "号码段上下界颠倒")
		return
	}
	if err := database.DB.Save(&division).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Marshalling division updated successfully", division)
}

func DeleteMarshallingDivision(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.MarshallingDivision{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	utils.Success(c, "Marshalling division deleted successfully", nil)
}

// ImportMarshallingDivisionsCSV 列：name, bottom_range, top_range，整表替换
func ImportMarshallingDivisionsCSV(c *gin.Context) {
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
		if err := tx.Where("1 = 1").Delete(&models.MarshallingDivision{}).Error; err != nil {
			return err
		}
		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 3 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected 3 columns, got %d", len(row)))
				continue
			}
			bottom, err1 := strconv.Atoi(strings.TrimSpace(row[1]))
			top, err2 := strconv.Atoi(strings.TrimSpace(row[2]))
			if err1 != nil || err2 != nil || bottom > top {
				summary.Errors = append(summary.Errors, rowError(rowNum, "invalid range %q-%q", row[1], row[2]))
				continue
			}
			division := models.MarshallingDivision{
				Name:        strings.TrimSpace(row[0]),
				BottomRange: bottom,
				TopRange:    top,
			}
			if err := tx.Create(&division).Error; err != nil {
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

	msg := "Marshalling divisions imported"
	if summary.HasErrors() {
		msg = "Marshalling divisions imported with errors"
	}
	utils.Success(c, msg, summary)
}

func GetNumberLocationList(c *gin.Context) {
	var locations []models.NumberLocation
	if err := database.DB.Order("club asc").Find(&locations).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", locations)
}

// ImportNumberLocationsCSV 列：club, number_location，整表替换
func ImportNumberLocationsCSV(c *gin.Context) {
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
		if err := tx.Where("1 = 1").Delete(&models.NumberLocation{}).Error; err != nil {
			return err
		}
		for i, row := range rows {
			rowNum := i + 2
			if len(row) < 2 {
				summary.Errors = append(summary.Errors, rowError(rowNum, "expected 2 columns, got %d", len(row)))
				continue
			}
			club := strings.TrimSpace(row[0])
			if club == "" {
				summary.Errors = append(summary.Errors, rowError(rowNum, "empty club"))
				continue
			}
			location := models.NumberLocation{
				Club:           club,
				NumberLocation: strings.TrimSpace(row[1]),
			}
			if err := tx.Create(&location).Error; err != nil {
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

	msg := "Number locations imported"
	if summary.HasErrors() {
		msg = "Number locations imported with errors"
	}
	utils.Success(c, msg, summary)
}

// file: controllers/broe_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/services"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// BROE 赛事基础数据：event/band/club 由 meeting setup 导入，competitor 单独导入
// 先导 meeting setup 再导船只/船员，外键才有落点

// ImportMeetingSetupFromBROE 从 British Rowing API 拉取赛事/分组/俱乐部定义
func ImportMeetingSetupFromBROE(c *gin.Context) {
	summary, err := services.ImportMeetingSetupFromBROE()
	if err != nil {
		utils.Error(c, 5003, "BROE import failed: "+err.Error())
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Meeting setup imported from BROE", summary)
}

// ImportCompetitorsFromBROE 从 British Rowing API 拉取船员名单
func ImportCompetitorsFromBROE(c *gin.Context) {
	imported, err := services.ImportCompetitorsFromBROE()
	if err != nil {
		utils.Error(c, 5003, "BROE import failed: "+err.Error())
		return
	}
	// 船员换了，crew 的 competitor_names 要跟着刷
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Competitors imported from BROE", gin.H{"imported": imported})
}

// GetEventList 赛事列表，带各自的分组
func GetEventList(c *gin.Context) {
	var events []models.Event
	if err := database.DB.Order("id asc").Find(&events).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	var bands []models.Band
	if err := database.DB.Order("id asc").Find(&bands).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", gin.H{"events": events, "bands": bands})
}

// GetClubList 俱乐部列表
func GetClubList(c *gin.Context) {
	var clubs []models.Club
	if err := database.DB.Order("name asc").Find(&clubs).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", gin.H{"total": len(clubs), "clubs": clubs})
}

// GetCompetitorList 船员列表
func GetCompetitorList(c *gin.Context) {
	var competitors []models.Competitor
	if err := database.DB.Order("crew_id asc, last_name asc").Find(&competitors).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", gin.H{"total": len(competitors), "competitors": competitors})
}

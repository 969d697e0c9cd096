// file: controllers/reconciliation_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/services"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// 对账端点：人工复核各计时设备之间的打点一致性

// GetRawTimeComparison 各设备 finish-start 净耗时对照
func GetRawTimeComparison(c *gin.Context) {
	cachedReport(c, "results:raw-time-compare", func() (interface{}, error) {
		day, err := services.LoadRaceDay()
		if err != nil {
			return nil, err
		}
		var taps []models.RaceTime
		if err := database.DB.Find(&taps).Error; err != nil {
			return nil, err
		}
		return services.CompareRawTimes(day, taps), nil
	})
}

// GetSequenceComparison 各设备打点序号对照，?tap=Start|Finish
func GetSequenceComparison(c *gin.Context) {
	tap := models.TapRole(c.DefaultQuery("tap", string(models.TapStart)))
	if tap != models.TapStart && tap != models.TapFinish {
		utils.Error(c, 1001, "tap 参数只能是 Start 或 Finish")
		return
	}

	// tap 不同在 Redis 里是两份缓存
	cachedReport(c, "results:sequence-compare:"+string(tap), func() (interface{}, error) {
		day, err := services.LoadRaceDay()
		if err != nil {
			return nil, err
		}
		var taps []models.RaceTime
		if err := database.DB.Find(&taps).Error; err != nil {
			return nil, err
		}
		return services.CompareSequences(day, tap, taps), nil
	})
}

// CompareResultsReq 成绩对比请求体：两套起终点设备组合
type CompareResultsReq struct {
	Comparison1 services.RaceCombo `json:"comparison1" binding:"required"`
	Comparison2 services.RaceCombo `json:"comparison2" binding:"required"`
}

// CompareResults 用两套起终点组合各算一遍成绩并排返回
// 依赖请求体选择设备，不走报表缓存
func CompareResults(c *gin.Context) {
	var req CompareResultsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数错误: "+err.Error())
		return
	}

	day, err := services.LoadRaceDay()
	if err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	comparison, err := services.CompareResults(day, req.Comparison1, req.Comparison2)
	if err != nil {
		utils.Error(c, 1002, err.Error())
		return
	}
	utils.Success(c, "success", comparison)
}

// file: controllers/race_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/services"
	"github.com/sian-alcock/pairshead-2020/utils"
)

func GetRaceList(c *gin.Context) {
	var races []models.Race
	if err := database.DB.Order("id asc").Find(&races).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", races)
}

func GetRaceDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的设备ID")
		return
	}
	var race models.Race
	if err := database.DB.First(&race, id).Error; err != nil {
		utils.Error(c, 4004, "计时设备不存在")
		return
	}
	utils.Success(c, "success", race)
}

// CreateRace 新建计时设备，默认旗标的互斥由模型 Hook 保证
func CreateRace(c *gin.Context) {
	var req struct {
		RaceID            string `json:"race_id"`
		Name              string `json:"name" binding:"required"`
		DefaultStart      bool   `json:"default_start"`
		DefaultFinish     bool   `json:"default_finish"`
		IsTimingReference bool   `json:"is_timing_reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	race := models.Race{
		RaceID:            req.RaceID,
		Name:              req.Name,
		DefaultStart:      req.DefaultStart,
		DefaultFinish:     req.DefaultFinish,
		IsTimingReference: req.IsTimingReference,
	}
	if err := database.DB.Create(&race).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Race created successfully", race)
}

// UpdateRace 改设备属性，默认旗标变更会影响成绩推导，改完全量重算
func UpdateRace(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的设备ID")
		return
	}
	var race models.Race
	if err := database.DB.First(&race, id).Error; err != nil {
		utils.Error(c, 4004, "计时设备不存在")
		return
	}

	var req struct {
		RaceID            *string `json:"race_id"`
		Name              *string `json:"name"`
		DefaultStart      *bool   `json:"default_start"`
		DefaultFinish     *bool   `json:"default_finish"`
		IsTimingReference *bool   `json:"is_timing_reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if req.RaceID != nil {
		race.RaceID = *req.RaceID
	}
	if req.Name != nil {
		race.Name = *req.Name
	}
	if req.DefaultStart != nil {
		race.DefaultStart = *req.DefaultStart
	}
	if req.DefaultFinish != nil {
		race.DefaultFinish = *req.DefaultFinish
	}
	if req.IsTimingReference != nil {
		race.IsTimingReference = *req.IsTimingReference
	}

	// Save 走 BeforeSave Hook，旗标互斥在那里处理
	if err := database.DB.Save(&race).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Race updated successfully", race)
}

// DeleteRace 删除设备，关联打点一并清掉
func DeleteRace(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的设备ID")
		return
	}
	if err := database.DB.Where("race_id = ?", id).Delete(&models.RaceTime{}).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if err := database.DB.Where("reference_race_id = ? OR target_race_id = ?", id, id).
		Delete(&models.RaceTimingSync{}).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if err := database.DB.Delete(&models.Race{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Race deleted successfully", nil)
}

func GetRaceTimingSyncList(c *gin.Context) {
	var syncs []models.RaceTimingSync
	if err := database.DB.Preload("ReferenceRace").Preload("TargetRace").
		Order("id asc").Find(&syncs).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", syncs)
}

// CreateRaceTimingSync 录一条时钟偏移，(reference, target) 每对只留一条
func CreateRaceTimingSync(c *gin.Context) {
	var req struct {
		ReferenceRaceID uint32 `json:"reference_race_id" binding:"required"`
		TargetRaceID    uint32 `json:"target_race_id" binding:"required"`
		TimingOffsetMs  int64  `json:"timing_offset_ms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.ReferenceRaceID == req.TargetRaceID {
		utils.Error(c, 1001, "参考设备和目标设备不能相同")
		return
	}

	var count int64
	database.DB.Model(&models.RaceTimingSync{}).
		Where("reference_race_id = ? AND target_race_id = ?", req.ReferenceRaceID, req.TargetRaceID).
		Count(&count)
	if count > 0 {
		utils.Error(c, 2001, "该设备对已存在偏移记录")
		return
	}

	sync := models.RaceTimingSync{
		ReferenceRaceID: req.ReferenceRaceID,
		TargetRaceID:    req.TargetRaceID,
		TimingOffsetMs:  req.TimingOffsetMs,
	}
	if err := database.DB.Create(&sync).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Timing sync created successfully", sync)
}

func UpdateRaceTimingSync(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的记录ID")
		return
	}
	var sync models.RaceTimingSync
	if err := database.DB.First(&sync, id).Error; err != nil {
		utils.Error(c, 4004, "偏移记录不存在")
		return
	}

	var req struct {
		TimingOffsetMs *int64 `json:"timing_offset_ms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.TimingOffsetMs != nil {
		if err := database.DB.Model(&sync).
			Update("timing_offset_ms", *req.TimingOffsetMs).Error; err != nil {
			utils.Error(c, 5000, "数据库错误: "+err.Error())
			return
		}
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Timing sync updated successfully", sync)
}

func DeleteRaceTimingSync(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.RaceTimingSync{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if _, err := services.RecalculateAll(); err != nil {
		utils.Error(c, 5000, "重算失败: "+err.Error())
		return
	}
	utils.Success(c, "Timing sync deleted successfully", nil)
}

// file: controllers/settings_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

func GetGlobalSettings(c *gin.Context) {
	settings, err := models.LoadGlobalSettings(database.DB)
	if err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", settings)
}

// UpdateGlobalSettings 改比赛阶段等全局配置，单例由模型 Hook 保证
func UpdateGlobalSettings(c *gin.Context) {
	settings, err := models.LoadGlobalSettings(database.DB)
	if err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	var req struct {
		RaceMode             *string `json:"race_mode"`
		TimingOffset         *int64  `json:"timing_offset"`
		TimingOffsetPositive *bool   `json:"timing_offset_positive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if req.RaceMode != nil {
		mode := models.RaceMode(*req.RaceMode)
		if mode != models.ModePreRace && mode != models.ModeRace {
			utils.Error(c, 1001, "race_mode 只能是 PRE_RACE 或 RACE")
			return
		}
		settings.RaceMode = mode
	}
	if req.TimingOffset != nil {
		settings.TimingOffset = *req.TimingOffset
	}
	if req.TimingOffsetPositive != nil {
		settings.TimingOffsetPositive = *req.TimingOffsetPositive
	}

	if err := database.DB.Save(settings).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Settings updated successfully", settings)
}

func GetEventMeetingKeyList(c *gin.Context) {
	var keys []models.EventMeetingKey
	if err := database.DB.Order("id asc").Find(&keys).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "success", keys)
}

func CreateEventMeetingKey(c *gin.Context) {
	var req struct {
		EventMeetingKey     string `json:"event_meeting_key" binding:"required"`
		EventMeetingName    string `json:"event_meeting_name" binding:"required"`
		CurrentEventMeeting bool   `json:"current_event_meeting"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	key := models.EventMeetingKey{
		EventMeetingKey:     req.EventMeetingKey,
		EventMeetingName:    req.EventMeetingName,
		CurrentEventMeeting: req.CurrentEventMeeting,
	}
	if err := database.DB.Create(&key).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Meeting key created successfully", key)
}

func UpdateEventMeetingKey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的记录ID")
		return
	}
	var key models.EventMeetingKey
	if err := database.DB.First(&key, id).Error; err != nil {
		utils.Error(c, 4004, "Meeting key 不存在")
		return
	}

	var req struct {
		EventMeetingKey     *string `json:"event_meeting_key"`
		EventMeetingName    *string `json:"event_meeting_name"`
		CurrentEventMeeting *bool   `json:"current_event_meeting"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.EventMeetingKey != nil {
		key.EventMeetingKey = *req.EventMeetingKey
	}
	if req.EventMeetingName != nil {
		key.EventMeetingName = *req.EventMeetingName
	}
	if req.CurrentEventMeeting != nil {
		key.CurrentEventMeeting = *req.CurrentEventMeeting
	}
	if err := database.DB.Save(&key).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}
	utils.Success(c, "Meeting key updated successfully", key)
}

func DeleteEventMeetingKey(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := database.DB.Delete(&models.EventMeetingKey{}, id).Error; err != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	utils.Success(c, "Meeting key deleted successfully", nil)
}

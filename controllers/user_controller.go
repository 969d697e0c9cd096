// file: controllers/user_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// --- 公开接口 ---

func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&user).Error; err == nil {
		utils.Error(c, 2001, "用户名或邮箱已被注册")
		return
	}

	newUser := models.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	utils.Success(c, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	})
}

func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}
	if user.Status == models.StatusBanned {
		utils.Error(c, 2005, "用户已被封禁")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Error(c, 5002, "Token 生成失败")
		return
	}

	utils.Success(c, "Login success", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/study-schedule-backend/utils"
)

type UnlockInput struct {
	Passcode string `json:"passcode" binding:"required"`
}

// POST /api/auth/unlock
// Kiểm tra passcode settings ở server (bcrypt) và cấp token ngắn hạn
func UnlockSettings(c *gin.Context) {
	var input UnlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng nhập passcode"})
		return
	}

	d := getDeps(c)
	if err := d.Passcode.Verify(input.Passcode); err != nil {
		if errors.Is(err, utils.ErrPasscodeNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Settings chưa được cấu hình passcode"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passcode. Please try again."})
		return
	}

	token, expiresAt, err := utils.GenerateSettingsToken(d.JWTSecret, d.TokenTTL)
	if err != nil {
		log.Printf("Không tạo được settings token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tạo được token"})
		return
	}

	// Đang ở màn hình nhập passcode thì chuyển luôn sang settings
	view := d.Navigator.Current()
	if unlocked, err := d.Navigator.Unlock(); err == nil {
		view = unlocked
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"view":      view,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/study-schedule-backend/services"
)

type ViewTransitionInput struct {
	Date string `json:"date"`
}

// GET /api/view
func GetView(c *gin.Context) {
	d := getDeps(c)
	c.JSON(http.StatusOK, gin.H{"view": d.Navigator.Current()})
}

// POST /api/view/:transition
func TransitionView(c *gin.Context) {
	d := getDeps(c)
	nav := d.Navigator

	var (
		view services.View
		err  error
	)
	switch services.Transition(c.Param("transition")) {
	case services.TransitionOpenSettings:
		view, err = nav.OpenSettings()
	case services.TransitionUnlock:
		// Chỉ mở khoá khi đã có settings token hợp lệ
		if c.GetString("scope") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cần settings token, gọi /api/auth/unlock trước"})
			return
		}
		view, err = nav.Unlock()
	case services.TransitionCancel:
		view, err = nav.Cancel()
	case services.TransitionOpenDate:
		var input ViewTransitionInput
		if bindErr := c.ShouldBindJSON(&input); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu ngày"})
			return
		}
		day, perr := services.ParseCalendarDate(input.Date, d.Location)
		if perr != nil {
			respondError(c, perr)
			return
		}
		view, err = nav.OpenDate(day)
	case services.TransitionBack:
		view, err = nav.Back()
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Transition không tồn tại"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"view": view}
	if view.State == services.ViewMaterialsForDate {
		day, _ := services.ParseCalendarDate(view.Date, d.Location)
		materials, merr := d.Stores.Materials.OnDate(c.Request.Context(), day)
		if merr != nil {
			respondError(c, merr)
			return
		}
		resp["materials"] = materials
	}
	c.JSON(http.StatusOK, resp)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/study-schedule-backend/services"
)

// GET /api/dashboard?subject=all|<id>
func GetDashboard(c *gin.Context) {
	d := getDeps(c)
	ctx := c.Request.Context()

	var subjectID *uuid.UUID
	if filter := c.DefaultQuery("subject", "all"); filter != "all" {
		parsed, err := uuid.Parse(filter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subject không hợp lệ"})
			return
		}
		subjectID = &parsed
	}

	subjects, err := d.Stores.Subjects.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	materials, err := d.Stores.Materials.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	summary := services.BuildDashboard(subjects, materials, subjectID, d.Location)
	c.JSON(http.StatusOK, gin.H{
		"data":  summary,
		"today": d.today().Format(services.DateLayout),
	})
}

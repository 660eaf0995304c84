package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/study-schedule-backend/models"
	"github.com/vnkhanh/study-schedule-backend/services"
)

type CreateMaterialRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	SubjectID   *string `json:"subjectId"`
	FileURL     *string `json:"fileUrl"`
	FileName    *string `json:"fileName"`
	Date        string  `json:"date"` // YYYY-MM-DD hoặc RFC3339
}

// GET /api/materials?date=YYYY-MM-DD&subject=<id>
func GetMaterials(c *gin.Context) {
	d := getDeps(c)
	ctx := c.Request.Context()

	var (
		materials []models.Material
		err       error
	)
	if dateStr := c.Query("date"); dateStr != "" {
		day, perr := services.ParseCalendarDate(dateStr, d.Location)
		if perr != nil {
			respondError(c, perr)
			return
		}
		materials, err = d.Stores.Materials.OnDate(ctx, day)
	} else {
		materials, err = d.Stores.Materials.List(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if subject := c.Query("subject"); subject != "" && subject != "all" {
		subjectID, perr := uuid.Parse(subject)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subject không hợp lệ"})
			return
		}
		materials = services.FilterBySubject(materials, subjectID)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  materials,
		"count": len(materials),
	})
}

// POST /api/materials
// Dùng cho cả form nhập tay và xác nhận draft từ Gemini
func CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề material bắt buộc"})
		return
	}

	d := getDeps(c)
	day, err := services.ParseCalendarDate(req.Date, d.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	var subjectID *uuid.UUID
	if req.SubjectID != nil && strings.TrimSpace(*req.SubjectID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*req.SubjectID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subjectId không hợp lệ", "field": "subjectId"})
			return
		}
		subjectID = &parsed
	}

	material, err := d.Stores.CreateMaterial(c.Request.Context(), services.MaterialInput{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   subjectID,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		Date:        day,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Tạo material thành công",
		"material": material,
	})
}

// DELETE /api/materials/:id
func DeleteMaterial(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	d := getDeps(c)
	if err := d.Stores.DeleteMaterial(c.Request.Context(), materialID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá material"})
}

// GET /api/materials/export
func ExportMaterials(c *gin.Context) {
	d := getDeps(c)
	ctx := c.Request.Context()

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

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="materials.xlsx"`)
	c.Status(http.StatusOK)
	if err := services.WriteMaterialsXLSX(c.Writer, materials, subjects, d.Location); err != nil {
		c.Error(err)
	}
}

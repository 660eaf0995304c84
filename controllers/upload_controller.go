package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/study-schedule-backend/models"
)

const maxUploadSize = 20 * 1024 * 1024

// POST /api/uploads
// Upload file đính kèm lên Supabase, trả về fileUrl/fileName để gửi kèm khi tạo material
func UploadMaterialFile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	d := getDeps(c)
	if d.Files == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chưa cấu hình lưu trữ file"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 20MB"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	defer src.Close()

	uploadID := uuid.New()
	objectPath := fmt.Sprintf("materials/%s%s", uploadID, filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	publicURL, err := d.Files.Upload(objectPath, src, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload Supabase", "details": err.Error()})
		return
	}

	upload := models.Upload{
		ID:          uploadID,
		FileURL:     publicURL,
		FileName:    filepath.Base(file.Filename),
		ContentType: contentType,
		Size:        file.Size,
	}
	if err := db.Create(&upload).Error; err != nil {
		// file đã lên storage nhưng không ghi được DB thì xoá luôn
		_ = d.Files.Delete(publicURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu thông tin upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uploadId": upload.ID,
		"fileUrl":  upload.FileURL,
		"fileName": upload.FileName,
	})
}

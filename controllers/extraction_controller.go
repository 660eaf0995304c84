package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/study-schedule-backend/services"
	"github.com/vnkhanh/study-schedule-backend/utils"
)

const maxExtractionFileSize = 10 * 1024 * 1024

type ExtractionRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/extractions
// Gửi văn bản tự do cho Gemini, trả về các draft để người dùng xác nhận từng cái
func ExtractMaterials(c *gin.Context) {
	var req ExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng nhập nội dung cần phân tích"})
		return
	}
	runExtraction(c, req.Text)
}

// POST /api/extractions/file
// Trích văn bản từ file .pdf/.docx/.txt rồi xử lý như ExtractMaterials
func ExtractMaterialsFromFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > maxExtractionFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 10MB"})
		return
	}

	inputType, err := utils.GetInputTypeFromExt(filepath.Ext(file.Filename))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(f, maxExtractionFileSize)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}

	text, err := services.NormalizeInput(services.InputSource{Type: inputType, Data: buf.Bytes()})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không trích xuất được nội dung file", "details": err.Error()})
		return
	}
	runExtraction(c, text)
}

func runExtraction(c *gin.Context, text string) {
	d := getDeps(c)
	ctx := c.Request.Context()

	subjects, err := d.Stores.Subjects.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	ref := d.today()
	drafts, err := d.Extractor.Extract(ctx, c.GetHeader(APIKeyHeader), text, services.SubjectRefs(subjects), ref)
	if err != nil {
		status, body := errorResponse(err)
		body["message"] = assistantErrorMessage(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       assistantSuccessMessage(len(drafts)),
		"referenceDate": ref.Format(services.DateLayout),
		"drafts":        drafts,
	})
}

func assistantSuccessMessage(n int) string {
	return fmt.Sprintf("I've analyzed your input and generated %d material(s). Please review them below and create the ones you'd like to add to your schedule.", n)
}

func assistantErrorMessage(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %v. Please check your API key and try again.", err)
}

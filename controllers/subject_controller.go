package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/study-schedule-backend/services"
)

// Màu mặc định khi người dùng không chọn (màu đầu tiên trong bảng màu của UI)
const defaultSubjectColor = "#3B82F6"

type CreateSubjectInput struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// GET /api/subjects
func GetSubjects(c *gin.Context) {
	d := getDeps(c)
	subjects, err := d.Stores.Subjects.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  subjects,
		"total": len(subjects),
	})
}

// POST /api/subjects
func CreateSubject(c *gin.Context) {
	var input CreateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên môn học bắt buộc, màu phải là mã hex"})
		return
	}
	if input.Color == "" {
		input.Color = defaultSubjectColor
	}

	d := getDeps(c)
	subject, err := d.Stores.CreateSubject(c.Request.Context(), services.SubjectInput{
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo môn học thành công",
		"subject": subject,
	})
}

// DELETE /api/subjects/:id
// Xoá môn học kéo theo xoá toàn bộ material thuộc môn đó
func DeleteSubject(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	d := getDeps(c)
	if err := d.Stores.DeleteSubject(c.Request.Context(), subjectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá môn học và các material liên quan"})
}

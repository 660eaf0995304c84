package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material là một mục trong lịch học (bài tập, bài đọc...).
// Date chỉ mang nghĩa ngày lịch, lưu dưới dạng 00:00 theo múi giờ ứng dụng (UTC trong DB).
type Material struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	SubjectID   *uuid.UUID `gorm:"type:uuid;index" json:"subjectId,omitempty"`
	FileURL     *string    `gorm:"type:text" json:"fileUrl,omitempty"`
	FileName    *string    `gorm:"size:255" json:"fileName,omitempty"`
	Date        time.Time  `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

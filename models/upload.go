package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload ghi lại file đã đẩy lên Supabase trước khi gắn vào material.
// Các upload không được gắn sẽ bị job cleanup xoá.
type Upload struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FileURL     string    `gorm:"type:text;not null;uniqueIndex" json:"fileUrl"`
	FileName    string    `gorm:"size:255;not null" json:"fileName"`
	ContentType string    `gorm:"size:255" json:"contentType"`
	Size        int64     `json:"size"`
	Attached    bool      `gorm:"default:false;not null;index" json:"attached"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

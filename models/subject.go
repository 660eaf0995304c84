package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Color     string     `gorm:"size:7;not null" json:"color"`   // mã màu hex, vd: #3B82F6
	Slug      string     `gorm:"size:255;index" json:"slug"`     // không unique vì tên có thể trùng
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	Materials []Material `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

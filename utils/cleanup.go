package utils

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/study-schedule-backend/models"
	"github.com/vnkhanh/study-schedule-backend/services"
)

// CleanupOrphanUploads xoá các file đã upload nhưng không gắn vào material nào trước cutoff
func CleanupOrphanUploads(db *gorm.DB, files services.FileRemover, cutoff time.Time) (int, error) {
	var uploads []models.Upload
	if err := db.Where("attached = ? AND created_at < ?", false, cutoff).Find(&uploads).Error; err != nil {
		return 0, err
	}

	removed := 0
	for _, up := range uploads {
		if files != nil {
			if err := files.Delete(up.FileURL); err != nil {
				log.Printf("Không xoá được file upload %s: %v", up.ID, err)
				continue
			}
		}
		if err := db.Delete(&models.Upload{}, "id = ?", up.ID).Error; err != nil {
			log.Printf("Không xoá được bản ghi upload %s: %v", up.ID, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// StartUploadCleanupJob chạy cleanup định kỳ
func StartUploadCleanupJob(db *gorm.DB, files services.FileRemover, retention time.Duration) {
	run := func() {
		n, err := CleanupOrphanUploads(db, files, time.Now().Add(-retention))
		if err != nil {
			log.Printf("Lỗi khi dọn upload: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Đã xoá %d upload không được sử dụng", n)
		}
	}

	// Chạy cleanup ngay lần đầu khi khởi động
	log.Println("Đang chạy cleanup lần đầu...")
	run()

	// Thiết lập ticker để chạy mỗi 6 giờ
	ticker := time.NewTicker(6 * time.Hour)

	go func() {
		defer ticker.Stop()
		for range ticker.C {
			log.Println("Cleanup job được kích hoạt...")
			run()
		}
	}()

	log.Println("Cleanup job đã được khởi động (chạy mỗi 6 giờ)")
}

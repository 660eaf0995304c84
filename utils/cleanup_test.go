package utils

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/study-schedule-backend/config"
	"github.com/vnkhanh/study-schedule-backend/models"
)

type fakeRemover struct {
	deleted []string
}

func (f *fakeRemover) Delete(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func TestCleanupOrphanUploads(t *testing.T) {
	db, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "cleanup.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	now := time.Now()
	old := now.Add(-48 * time.Hour)
	uploads := []models.Upload{
		{FileURL: "https://x/storage/v1/object/public/uploads/old-orphan.pdf", FileName: "old-orphan.pdf", CreatedAt: old},
		{FileURL: "https://x/storage/v1/object/public/uploads/old-attached.pdf", FileName: "old-attached.pdf", Attached: true, CreatedAt: old},
		{FileURL: "https://x/storage/v1/object/public/uploads/fresh.pdf", FileName: "fresh.pdf", CreatedAt: now},
	}
	for i := range uploads {
		require.NoError(t, db.Create(&uploads[i]).Error)
	}

	files := &fakeRemover{}
	n, err := CleanupOrphanUploads(db, files, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"https://x/storage/v1/object/public/uploads/old-orphan.pdf"}, files.deleted)

	var remaining []models.Upload
	require.NoError(t, db.Order("file_name").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "fresh.pdf", remaining[0].FileName)
	assert.Equal(t, "old-attached.pdf", remaining[1].FileName)
}

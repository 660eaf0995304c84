package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/study-schedule-backend/models"
)

// ChangeNotifier được gọi sau mỗi lần ghi thành công (vd: broadcast websocket)
type ChangeNotifier func(kind string)

const (
	ChangeSubjects  = "subjects_changed"
	ChangeMaterials = "materials_changed"
)

// FileRemover xoá file đã upload (Supabase) khi material bị xoá
type FileRemover interface {
	Delete(publicURL string) error
}

type FileStorage interface {
	FileRemover
	Upload(objectPath string, data io.Reader, contentType string) (string, error)
}

// ======== SUBJECTS ========

type SubjectInput struct {
	Name  string
	Color string
}

// SubjectStore giữ danh sách subject (theo created_at tăng dần) đồng bộ với DB.
// Sau mỗi lần ghi, cache được đọc lại từ DB.
type SubjectStore struct {
	db     *gorm.DB
	mu     sync.RWMutex
	items  []models.Subject
	loaded bool
}

func NewSubjectStore(db *gorm.DB) *SubjectStore {
	return &SubjectStore{db: db}
}

func (s *SubjectStore) List(ctx context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	if s.loaded {
		out := append([]models.Subject(nil), s.items...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Subject(nil), s.items...), nil
}

func (s *SubjectStore) Refresh(ctx context.Context) error {
	var subjects []models.Subject
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&subjects).Error; err != nil {
		log.Printf("Error fetching subjects: %v", err)
		return &StoreError{Op: "list subjects", Err: err}
	}
	s.mu.Lock()
	s.items = subjects
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *SubjectStore) Get(ctx context.Context, id uuid.UUID) (models.Subject, error) {
	subjects, err := s.List(ctx)
	if err != nil {
		return models.Subject{}, err
	}
	for _, sub := range subjects {
		if sub.ID == id {
			return sub, nil
		}
	}
	return models.Subject{}, ErrNotFound
}

func (s *SubjectStore) Create(ctx context.Context, in SubjectInput) (models.Subject, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Subject{}, newValidationError("name", "Subject name is required")
	}
	subject := models.Subject{
		Name:  name,
		Color: strings.ToUpper(strings.TrimSpace(in.Color)),
		Slug:  slug.Make(name),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&subject).Error; err != nil {
		log.Printf("Error creating subject: %v", err)
		return models.Subject{}, &StoreError{Op: "create subject", Err: err}
	}
	if err := s.Refresh(ctx); err != nil {
		return subject, err
	}
	return subject, nil
}

// delete xoá subject cùng các material phụ thuộc trong một transaction,
// trả về file URL của các material đã xoá.
func (s *SubjectStore) delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var fileURLs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Material{}).
			Where("subject_id = ? AND file_url IS NOT NULL", id).
			Pluck("file_url", &fileURLs).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&models.Material{}).Error; err != nil {
			return err
		}
		if err := deleteUploadRows(tx, fileURLs...); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Subject{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error deleting subject: %v", err)
		return nil, &StoreError{Op: "delete subject", Err: err}
	}
	return fileURLs, nil
}

// ======== MATERIALS ========

type MaterialInput struct {
	Title       string
	Description *string
	SubjectID   *uuid.UUID
	FileURL     *string
	FileName    *string
	Date        time.Time
}

// MaterialStore giữ danh sách material theo date tăng dần
type MaterialStore struct {
	db     *gorm.DB
	loc    *time.Location
	mu     sync.RWMutex
	items  []models.Material
	loaded bool
}

func NewMaterialStore(db *gorm.DB, loc *time.Location) *MaterialStore {
	if loc == nil {
		loc = time.UTC
	}
	return &MaterialStore{db: db, loc: loc}
}

func (s *MaterialStore) Location() *time.Location { return s.loc }

func (s *MaterialStore) List(ctx context.Context) ([]models.Material, error) {
	s.mu.RLock()
	if s.loaded {
		out := append([]models.Material(nil), s.items...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Material(nil), s.items...), nil
}

func (s *MaterialStore) Refresh(ctx context.Context) error {
	var materials []models.Material
	if err := s.db.WithContext(ctx).Order("date ASC").Order("created_at ASC").Find(&materials).Error; err != nil {
		log.Printf("Error fetching materials: %v", err)
		return &StoreError{Op: "list materials", Err: err}
	}
	s.mu.Lock()
	s.items = materials
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// OnDate trả về material có ngày trùng với day (theo ngày lịch trong múi giờ ứng dụng)
func (s *MaterialStore) OnDate(ctx context.Context, day time.Time) ([]models.Material, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Material, 0)
	for _, m := range all {
		if SameDay(m.Date, day, s.loc) {
			out = append(out, m)
		}
	}
	return out, nil
}

func FilterBySubject(materials []models.Material, subjectID uuid.UUID) []models.Material {
	out := make([]models.Material, 0, len(materials))
	for _, m := range materials {
		if m.SubjectID != nil && *m.SubjectID == subjectID {
			out = append(out, m)
		}
	}
	return out
}

func (s *MaterialStore) Create(ctx context.Context, in MaterialInput) (models.Material, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Material{}, newValidationError("title", "Material title is required")
	}
	if in.Date.IsZero() {
		return models.Material{}, newValidationError("date", "Please select a date")
	}

	material := models.Material{
		Title:       title,
		Description: trimOptional(in.Description),
		SubjectID:   in.SubjectID,
		FileURL:     trimOptional(in.FileURL),
		FileName:    trimOptional(in.FileName),
		Date:        StartOfDay(in.Date.In(s.loc)).UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if material.SubjectID != nil {
			var count int64
			if err := tx.Model(&models.Subject{}).Where("id = ?", *material.SubjectID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return newValidationError("subjectId", "Subject does not exist")
			}
		}
		if err := tx.Omit(clause.Associations).Create(&material).Error; err != nil {
			return err
		}
		if material.FileURL != nil {
			return tx.Model(&models.Upload{}).
				Where("file_url = ?", *material.FileURL).
				Update("attached", true).Error
		}
		return nil
	})
	var verr *ValidationError
	if errors.As(err, &verr) {
		return models.Material{}, verr
	}
	if err != nil {
		log.Printf("Error creating material: %v", err)
		return models.Material{}, &StoreError{Op: "create material", Err: err}
	}

	if err := s.Refresh(ctx); err != nil {
		return material, err
	}
	return material, nil
}

func (s *MaterialStore) delete(ctx context.Context, id uuid.UUID) (*string, error) {
	var material models.Material
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&material, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&models.Material{}, "id = ?", id).Error; err != nil {
			return err
		}
		if material.FileURL != nil {
			return deleteUploadRows(tx, *material.FileURL)
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error deleting material: %v", err)
		return nil, &StoreError{Op: "delete material", Err: err}
	}
	return material.FileURL, nil
}

// deleteUploadRows xoá bản ghi upload của các file sắp bị xoá khỏi storage;
// job cleanup chỉ dọn upload chưa gắn nên không tự xoá được các dòng này
func deleteUploadRows(tx *gorm.DB, fileURLs ...string) error {
	if len(fileURLs) == 0 {
		return nil
	}
	return tx.Where("file_url IN ?", fileURLs).Delete(&models.Upload{}).Error
}

// ======== STORES ========

// Stores gom hai store lại để các thao tác xoá dây chuyền luôn làm mới cả hai cache
type Stores struct {
	Subjects  *SubjectStore
	Materials *MaterialStore
	Files     FileRemover
	Notify    ChangeNotifier
}

func NewStores(db *gorm.DB, loc *time.Location) *Stores {
	return &Stores{
		Subjects:  NewSubjectStore(db),
		Materials: NewMaterialStore(db, loc),
	}
}

func (st *Stores) CreateSubject(ctx context.Context, in SubjectInput) (models.Subject, error) {
	subject, err := st.Subjects.Create(ctx, in)
	if err != nil {
		return subject, err
	}
	st.notify(ChangeSubjects)
	return subject, nil
}

// DeleteSubject xoá subject và toàn bộ material của nó, sau đó đọc lại cả hai danh sách
func (st *Stores) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	fileURLs, err := st.Subjects.delete(ctx, id)
	if err != nil {
		return err
	}
	st.removeFiles(fileURLs...)

	if err := st.Subjects.Refresh(ctx); err != nil {
		return err
	}
	if err := st.Materials.Refresh(ctx); err != nil {
		return err
	}
	st.notify(ChangeSubjects)
	st.notify(ChangeMaterials)
	return nil
}

func (st *Stores) CreateMaterial(ctx context.Context, in MaterialInput) (models.Material, error) {
	material, err := st.Materials.Create(ctx, in)
	if err != nil {
		return material, err
	}
	st.notify(ChangeMaterials)
	return material, nil
}

func (st *Stores) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	fileURL, err := st.Materials.delete(ctx, id)
	if err != nil {
		return err
	}
	if fileURL != nil {
		st.removeFiles(*fileURL)
	}
	if err := st.Materials.Refresh(ctx); err != nil {
		return err
	}
	st.notify(ChangeMaterials)
	return nil
}

func (st *Stores) removeFiles(urls ...string) {
	if st.Files == nil {
		return
	}
	for _, u := range urls {
		if err := st.Files.Delete(u); err != nil {
			log.Printf("Không xoá được file %s: %v", u, err)
		}
	}
}

func (st *Stores) notify(kind string) {
	if st.Notify != nil {
		st.Notify(kind)
	}
}

package utils

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

var ErrStorageDisabled = errors.New("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")

// SupabaseStorage lưu file đính kèm của material vào Supabase Storage
type SupabaseStorage struct {
	baseURL string
	bucket  string
	client  *storage.Client
}

// NewSupabaseStorage trả về nil nếu thiếu cấu hình, khi đó upload bị tắt
func NewSupabaseStorage(baseURL, key, bucket string) *SupabaseStorage {
	if baseURL == "" || key == "" {
		return nil
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &SupabaseStorage{
		baseURL: baseURL,
		bucket:  bucket,
		client:  storage.NewClient(baseURL+"/storage/v1", key, nil),
	}
}

// Upload đẩy file lên bucket, path: <bucket>/<objectPath>, trả về public URL
func (s *SupabaseStorage) Upload(objectPath string, data io.Reader, contentType string) (string, error) {
	if s == nil {
		return "", ErrStorageDisabled
	}
	options := storage.FileOptions{
		ContentType: &contentType,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, data, options); err != nil {
		return "", fmt.Errorf("upload Supabase thất bại: %w", err)
	}
	return s.PublicURL(objectPath), nil
}

func (s *SupabaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// Delete nhận public URL (chứa "/storage/v1/object/") và xoá object tương ứng.
// URL không thuộc Supabase (vd: link ngoài) được bỏ qua.
func (s *SupabaseStorage) Delete(publicURL string) error {
	if publicURL == "" {
		return nil
	}
	if s == nil {
		return ErrStorageDisabled
	}
	bucket, object, err := ParseObjectURL(publicURL)
	if err != nil {
		return nil
	}
	if _, err := s.client.RemoveFile(bucket, []string{object}); err != nil {
		return fmt.Errorf("xóa file Supabase thất bại: %w", err)
	}
	return nil
}

// ParseObjectURL tách bucket và object path từ URL dạng .../storage/v1/object/[public/]<bucket>/<path>
func ParseObjectURL(publicURL string) (bucket, object string, err error) {
	const marker = "/storage/v1/object/"
	idx := strings.Index(publicURL, marker)
	if idx == -1 {
		return "", "", fmt.Errorf("không xác định được đường dẫn object trong URL: %s", publicURL)
	}

	rest := publicURL[idx+len(marker):]
	rest = strings.TrimPrefix(rest, "public/")

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("không parse được bucket/object từ URL: %s", publicURL)
	}
	bucket = parts[0]
	object = parts[1]
	// bỏ query params nếu có
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}
	return bucket, object, nil
}

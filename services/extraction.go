package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vnkhanh/study-schedule-backend/models"
)

const parseFailureMsg = "could not parse materials from response"

// MaterialDraft là material ứng viên chưa lưu, chờ người dùng xác nhận
type MaterialDraft struct {
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	SubjectID    *string `json:"subjectId,omitempty"`
	Date         string  `json:"date"`
	DateInferred bool    `json:"dateInferred,omitempty"`
}

// SubjectRef là phần của Subject mà engine cần để đối chiếu
type SubjectRef struct {
	ID   string
	Name string
}

func SubjectRefs(subjects []models.Subject) []SubjectRef {
	refs := make([]SubjectRef, 0, len(subjects))
	for _, s := range subjects {
		refs = append(refs, SubjectRef{ID: s.ID.String(), Name: s.Name})
	}
	return refs
}

type rawDraft struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	SubjectID   json.RawMessage `json:"subjectId"`
	Date        string          `json:"date"`
}

// subjectRef trả subjectId dạng chuỗi; model đôi khi trả số thay vì chuỗi
func (r rawDraft) subjectRef() string {
	raw := bytes.TrimSpace(r.SubjectID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}

type Extractor struct {
	Generator TextGenerator
	Timeout   time.Duration

	inflight singleflight.Group
}

func NewExtractor(gen TextGenerator, timeout time.Duration) *Extractor {
	return &Extractor{Generator: gen, Timeout: timeout}
}

// Extract biến văn bản tự do thành danh sách draft theo đúng thứ tự model trả về.
// Các yêu cầu giống hệt nhau đang chạy đồng thời dùng chung một lần gọi upstream.
func (e *Extractor) Extract(ctx context.Context, apiKey, freeText string, subjects []SubjectRef, ref time.Time) ([]MaterialDraft, error) {
	text := strings.TrimSpace(freeText)
	if text == "" {
		return nil, newValidationError("text", ErrEmptyInput.Error())
	}

	prompt := BuildExtractionPrompt(text, subjects, ref)
	v, err, shared := e.inflight.Do(inflightKey(apiKey, prompt), func() (interface{}, error) {
		return e.generate(ctx, apiKey, prompt)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Println("extraction: dùng chung kết quả với yêu cầu trùng đang chạy")
	}

	items, err := ParseDraftResponse(v.(string))
	if err != nil {
		return nil, err
	}

	drafts := make([]MaterialDraft, 0, len(items))
	for _, item := range items {
		date, inferred := RepairDate(item.Date, ref)
		drafts = append(drafts, MaterialDraft{
			Title:        strings.TrimSpace(item.Title),
			Description:  trimOptional(item.Description),
			SubjectID:    ResolveSubject(item.subjectRef(), subjects),
			Date:         date,
			DateInferred: inferred,
		})
	}
	log.Printf("extraction: tạo %d draft từ %d ký tự đầu vào", len(drafts), len(text))
	return drafts, nil
}

func (e *Extractor) generate(ctx context.Context, apiKey, prompt string) (string, error) {
	// Không để một client huỷ kết nối làm hỏng lần gọi đang được chia sẻ
	callCtx := context.WithoutCancel(ctx)
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, e.Timeout)
		defer cancel()
	}
	return e.Generator.GenerateText(callCtx, apiKey, prompt)
}

func inflightKey(apiKey, prompt string) string {
	sum := sha256.Sum256([]byte(apiKey + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// ParseDraftResponse đọc mảng JSON từ phản hồi của model.
// Ưu tiên parse nguyên văn (đã bỏ code fence); nếu không phải JSON thuần thì
// lấy đoạn [...] đầu tiên trong văn bản.
func ParseDraftResponse(text string) ([]rawDraft, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var items []rawDraft
	if err := json.Unmarshal([]byte(clean), &items); err == nil {
		// "null" cũng parse được nhưng không phải mảng
		if items == nil {
			return nil, &ParseError{Msg: parseFailureMsg}
		}
		return items, checkDraftShape(items)
	}

	span, ok := firstArraySpan(clean)
	if !ok {
		return nil, &ParseError{Msg: parseFailureMsg}
	}
	items = nil
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, &ParseError{Msg: parseFailureMsg, Err: err}
	}
	return items, checkDraftShape(items)
}

func checkDraftShape(items []rawDraft) error {
	for i, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			return &ParseError{Msg: fmt.Sprintf("%s: item %d has no title", parseFailureMsg, i+1)}
		}
	}
	return nil
}

// firstArraySpan trả về đoạn [...] cân bằng đầu tiên, bỏ qua dấu ngoặc nằm trong chuỗi JSON
func firstArraySpan(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ResolveSubject đối chiếu subjectId model trả về với danh sách subject (không phân biệt hoa thường):
// trùng id, hoặc tên subject chứa chuỗi đó. Subject đầu tiên khớp được chọn.
func ResolveSubject(raw string, subjects []SubjectRef) *string {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" || needle == "null" {
		return nil
	}
	for _, s := range subjects {
		if strings.ToLower(s.ID) == needle || strings.Contains(strings.ToLower(s.Name), needle) {
			id := s.ID
			return &id
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

package utils

import (
	"errors"
	"strings"

	"github.com/vnkhanh/study-schedule-backend/services"
)

// Hàm ánh xạ phần mở rộng file sang InputType
func GetInputTypeFromExt(ext string) (services.InputType, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return services.InputPDF, nil
	case ".docx":
		return services.InputDOCX, nil
	case ".txt", ".md":
		return services.InputTXT, nil
	default:
		return "", errors.New("định dạng file không hỗ trợ (chỉ nhận .pdf, .docx, .txt)")
	}
}

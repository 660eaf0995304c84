package services

import (
	"errors"
)

// Định nghĩa loại input cho việc trích xuất material
type InputType string

const (
	InputText InputType = "text"
	InputTXT  InputType = "txt"
	InputDOCX InputType = "docx"
	InputPDF  InputType = "pdf"
)

// InputSource là nguồn văn bản: người dùng nhập tay hoặc nội dung file đã upload
type InputSource struct {
	Type InputType
	Data []byte // nội dung file (txt, docx, pdf)
	Text string // nếu người dùng nhập tay
}

// NormalizeInput chuyển input thành plain text đã làm sạch sơ bộ
func NormalizeInput(input InputSource) (string, error) {
	var (
		text string
		err  error
	)
	switch input.Type {
	case InputText:
		return input.Text, nil
	case InputTXT:
		text, err = ExtractTextFromTXT(input.Data)
	case InputPDF:
		text, err = ExtractTextFromPDF(input.Data)
	case InputDOCX:
		text, err = ExtractTextFromDOCX(input.Data)
	default:
		return "", errors.New("loại input không được hỗ trợ")
	}
	if err != nil {
		return "", err
	}
	return PreCleanText(text), nil
}

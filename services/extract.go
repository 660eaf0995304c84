package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractTextFromPDF ghép plain text của từng trang, bỏ qua trang lỗi
func ExtractTextFromPDF(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("không đọc được PDF: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for n := 1; n <= doc.NumPage(); n++ {
		p := doc.Page(n)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return "", errors.New("PDF không có nội dung văn bản")
	}
	return strings.Join(pages, "\n"), nil
}

// ExtractTextFromDOCX lấy nội dung các đoạn <w:p> trong word/document.xml, mỗi đoạn một dòng
func ExtractTextFromDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("file docx không hợp lệ: %w", err)
	}
	body, err := openZipEntry(archive, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer body.Close()

	var (
		paragraphs []string
		runs       []string
	)
	dec := xml.NewDecoder(body)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml lỗi: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "t" {
				continue
			}
			var run string
			if err := dec.DecodeElement(&run, &el); err == nil && strings.TrimSpace(run) != "" {
				runs = append(runs, strings.TrimSpace(run))
			}
		case xml.EndElement:
			if el.Name.Local == "p" && len(runs) > 0 {
				paragraphs = append(paragraphs, strings.Join(runs, " "))
				runs = runs[:0]
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func openZipEntry(archive *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range archive.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("không tìm thấy %s trong file docx", name)
}

func ExtractTextFromTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("file txt không phải UTF-8")
	}
	return string(data), nil
}

package services

import (
	"regexp"
	"strings"
)

var (
	reTOC          = regexp.MustCompile(`(?im)^.*(mục lục|table of contents).*$`)
	rePageNumber   = regexp.MustCompile(`(?im)^\s*(trang|page)\s*\d+(\s*(/|of)\s*\d+)?\s*$`)
	reSpecialLines = regexp.MustCompile(`(?m)^[\s\W\d]*$`)
	reMultiNewLine = regexp.MustCompile(`\n{2,}`)
	reSpaces       = regexp.MustCompile(`[ \t]{2,}`)
)

// PreCleanText xử lý thô văn bản lấy từ file (syllabus, thông báo lớp...) trước khi gửi model:
// bỏ dòng mục lục, số trang, dòng chỉ có ký hiệu và các dòng trống liên tiếp.
// Các dòng chỉ có số/ngày như "12/06" không bị xoá vì có thể là hạn nộp.
func PreCleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")

	cleaned = reTOC.ReplaceAllString(cleaned, "")
	cleaned = rePageNumber.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if reSpecialLines.MatchString(line) && !hasDigit(line) {
			continue
		}
		kept = append(kept, strings.TrimRight(reSpaces.ReplaceAllString(line, " "), " "))
	}
	cleaned = strings.Join(kept, "\n")

	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

package services

import (
	"fmt"
	"strings"
	"time"
)

const longDateLayout = "Monday, January 2, 2006"

// BuildExtractionPrompt dựng prompt gửi Gemini, gắn ngày hiện tại để model
// không tự suy ra năm cũ từ dữ liệu huấn luyện.
func BuildExtractionPrompt(freeText string, subjects []SubjectRef, ref time.Time) string {
	year := ref.Year()
	month := ref.Month().String()
	today := ref.Format(longDateLayout)

	var b strings.Builder
	b.WriteString("You are an intelligent study material organizer.\n\n")

	b.WriteString("CURRENT DATE CONTEXT:\n")
	fmt.Fprintf(&b, "- Today's date: %s\n", today)
	fmt.Fprintf(&b, "- Current year: %d\n", year)
	fmt.Fprintf(&b, "- Current month: %s\n\n", month)

	b.WriteString("Based on the user's text input, extract and create study materials with the following guidelines:\n\n")
	b.WriteString("1. Identify subjects, topics, assignments, deadlines, and study materials\n")
	b.WriteString("2. Create appropriate titles and descriptions\n")
	b.WriteString("3. Determine dates from context using these rules:\n")
	b.WriteString("   - If a specific date is mentioned, use that date\n")
	b.WriteString("   - If only a day is mentioned (e.g., \"Monday\", \"next Tuesday\"), calculate it from today's date\n")
	b.WriteString("   - If a relative date is mentioned (e.g., \"next week\", \"in 3 days\", \"tomorrow\"), calculate it from today's date\n")
	fmt.Fprintf(&b, "   - If a month is mentioned without a year, assume the current year (%d)\n", year)
	b.WriteString("   - If no date is specified but it looks like an assignment or exam, suggest a reasonable date within the next few weeks\n")
	fmt.Fprintf(&b, "   - NEVER use a year before %d unless the user explicitly mentions it\n", year)
	fmt.Fprintf(&b, "   - Always use %d as the default year\n", year)
	b.WriteString("4. Return ONLY a JSON array, no prose, where every object has exactly these fields:\n")
	b.WriteString(`[
  {
    "title": "Material title",
    "description": "Detailed description",
    "subjectId": "subject id, subject name, or null",
    "date": "YYYY-MM-DD"
  }
]`)
	b.WriteString("\n\n")

	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, fmt.Sprintf("%s (%s)", s.Name, s.ID))
	}
	if len(names) == 0 {
		b.WriteString("Available subjects: none\n\n")
	} else {
		fmt.Fprintf(&b, "Available subjects: %s\n\n", strings.Join(names, ", "))
	}

	b.WriteString("Prefer the subject id in parentheses when a subject matches. If a mentioned subject doesn't match any available subject, set subjectId to null.\n")
	b.WriteString("Extract every actionable study item (assignments, readings, exams) from the input.\n")
	fmt.Fprintf(&b, "The \"date\" field MUST be formatted exactly as YYYY-MM-DD and be in %d or later.\n\n", year)

	fmt.Fprintf(&b, "User input: %s", freeText)
	return b.String()
}

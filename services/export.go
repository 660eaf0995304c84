package services

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/vnkhanh/study-schedule-backend/models"
)

const exportSheet = "Materials"

var exportHeaders = []string{"Date", "Title", "Subject", "Description", "File name", "File URL", "Created at"}

// WriteMaterialsXLSX ghi lịch học ra file Excel, mỗi material một dòng theo thứ tự đầu vào
func WriteMaterialsXLSX(w io.Writer, materials []models.Material, subjects []models.Subject, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	names := make(map[uuid.UUID]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}

	for r, m := range materials {
		subject := "No Subject"
		if m.SubjectID != nil {
			if name, ok := names[*m.SubjectID]; ok {
				subject = name
			} else {
				subject = "Unknown Subject"
			}
		}
		row := []interface{}{
			m.Date.In(loc).Format(DateLayout),
			m.Title,
			subject,
			derefString(m.Description),
			derefString(m.FileName),
			derefString(m.FileURL),
			m.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("ghi dòng %d lỗi: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "B", "D", 32); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

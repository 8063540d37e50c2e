package storage

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Messages"

var exportHeaders = []string{"ID", "Name", "Number", "Message"}

// ExportMessages renders the whole general_messages table as an xlsx workbook.
func (s *MessageStorage) ExportMessages(ctx context.Context) ([]byte, error) {
	const operation = "storage.ExportMessages"

	messages, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	data, err := BuildWorkbook(messages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return data, nil
}

// BuildWorkbook lays the messages out one per row below a bold header.
func BuildWorkbook(messages []Message) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "D1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for row, m := range messages {
		values := []interface{}{m.ID, m.Name, m.Number, m.Message}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

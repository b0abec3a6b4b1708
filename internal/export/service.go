package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/voterscan/voterscan/internal/entity"
	"github.com/voterscan/voterscan/internal/repository"
)

// Service is a tiny façade over the record repository that produces the
// machine-consumable export surfaces.
type Service struct {
	records repository.RecordRepository
	logger  *slog.Logger
}

func NewService(records repository.RecordRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{records: records, logger: logger}
}

// DumpJSON returns the verbatim structured dump of one record, canonical
// field order preserved.
func DumpJSON(rec entity.Record) ([]byte, error) {
	return rec.MarshalOrdered()
}

// ExportRecordsXLSX returns an XLSX workbook (as bytes) of the archived
// records, newest first. Columns follow the canonical field order, prefixed
// with the archive id and creation time.
func (s *Service) ExportRecordsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.records.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Record ID", "Extracted At"}
	for _, name := range entity.FieldNames {
		headers = append(headers, entity.DisplayLabel(name))
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, rec.ID.String())
		write(2, rec.CreatedAt.UTC().Format(time.RFC3339))
		for i, name := range entity.FieldNames {
			value, _ := rec.Record.Field(name)
			write(i+3, value)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.xlsx.ok", "rows", len(recs), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

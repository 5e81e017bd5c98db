package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/domain"
)

const jobsSheet = "Trabajos"

var jobsSheetHeaders = []string{
	"Código", "Fecha", "Cliente", "Celular", "Archivo", "Impresora",
	"Metros", "Copias", "Valor", "Estado", "Método de pago", "Reposición", "Observaciones",
}

// ExportService renders job lists as spreadsheets.
type ExportService struct {
	jobs   *JobService
	logger *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(jobs *JobService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{jobs: jobs, logger: logger}
}

// JobsWorkbook returns the filtered job list of a day as an XLSX document.
func (s *ExportService) JobsWorkbook(ctx context.Context, filter JobListFilter) ([]byte, error) {
	start := time.Now()
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	buf, err := renderJobsWorkbook(jobs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("jobs workbook exported",
		zap.String("fecha", filter.Date),
		zap.Int("rows", len(jobs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return buf, nil
}

func renderJobsWorkbook(jobs []domain.JobWithClient) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return nil, err
	}

	for i, h := range jobsSheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(jobsSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(jobsSheetHeaders), 1)
		_ = f.SetCellStyle(jobsSheet, "A1", last, style)
	}

	var total int64
	for i, j := range jobs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(jobsSheet, cell, v)
		}

		clientName, phone := "", ""
		if j.Client != nil {
			clientName = j.Client.Name
			phone = j.Client.PhoneKey()
		}
		method := ""
		if j.PaymentMethod != nil {
			method = string(*j.PaymentMethod)
		}
		notes := ""
		if j.Notes != nil {
			notes = *j.Notes
		}
		reprint := "No"
		if j.Reprint {
			reprint = "Sí"
		}

		write(1, j.Code)
		write(2, j.SubmittedAt.Format("2006-01-02 15:04:05"))
		write(3, clientName)
		write(4, phone)
		write(5, j.OriginalName)
		write(6, j.MachineLabel())
		write(7, j.Meters)
		write(8, j.Copies)
		write(9, j.Value)
		write(10, string(j.Status))
		write(11, method)
		write(12, reprint)
		write(13, notes)
		total += j.Value
	}

	totalRow := len(jobs) + 2
	labelCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(9, totalRow)
	_ = f.SetCellValue(jobsSheet, labelCell, "Total")
	_ = f.SetCellValue(jobsSheet, valueCell, total)

	_ = f.SetColWidth(jobsSheet, "A", "A", 8)
	_ = f.SetColWidth(jobsSheet, "B", "B", 20)
	_ = f.SetColWidth(jobsSheet, "C", "E", 28)
	_ = f.SetColWidth(jobsSheet, "F", "F", 18)
	_ = f.SetColWidth(jobsSheet, "M", "M", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

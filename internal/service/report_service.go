package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/store"
)

// DefaultBestClientsLimit is used when the caller passes no usable limit.
const DefaultBestClientsLimit = 2

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

type ExcelGenerator interface {
	Generate(report model.ClientReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.ClientReport) ([]byte, error)
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService answers the two ranking queries over paid jobs and renders
// the best-clients ranking as a downloadable file.
type ReportService struct {
	store store.Store
	excel ExcelGenerator
	pdf   PDFGenerator
}

func NewReportService(st store.Store, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{store: st, excel: excel, pdf: pdf}
}

// BestProfession returns the profession that earned the most over paid jobs
// with a payment timestamp inside [start, end]. Ties go to the
// lexicographically smallest profession name. An empty window is ErrNoData.
func (s *ReportService) BestProfession(ctx context.Context, start, end time.Time) (string, error) {
	if err := validateRange(start, end); err != nil {
		return "", err
	}
	totals, err := s.store.ProfessionTotals(ctx, start, end)
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "", ErrNoData
	}
	return totals[0].Profession, nil
}

// BestClients returns the clients that paid the most inside [start, end],
// ordered by total descending with ties broken by client id. A non-positive
// limit falls back to DefaultBestClientsLimit. Each row carries the client's
// live balance at query time.
func (s *ReportService) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultBestClientsLimit
	}
	return s.store.ClientTotals(ctx, start, end, limit)
}

// ExportBestClients renders the best-clients ranking as an Excel or PDF
// attachment.
func (s *ReportService) ExportBestClients(ctx context.Context, start, end time.Time, limit int, format ExportFormat) (*ExportResult, error) {
	clients, err := s.BestClients(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultBestClientsLimit
	}

	report := model.ClientReport{
		PeriodStart: start,
		PeriodEnd:   end,
		Limit:       limit,
		Clients:     clients,
	}

	switch format {
	case ExportFormatXLSX:
		content, err := s.excel.Generate(report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildExportFileName(report, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Generate(report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildExportFileName(report, "pdf"),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, format)
	}
}

func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "xlsx", "excel":
		return ExportFormatXLSX, nil
	case "pdf":
		return ExportFormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, raw)
	}
}

func buildExportFileName(report model.ClientReport, ext string) string {
	period := fmt.Sprintf("%s-%s", report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("best-clients-%s.%s", period, ext)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidRange
	}
	if start.After(end) {
		return fmt.Errorf("%w: start date is after end date", ErrInvalidRange)
	}
	return nil
}

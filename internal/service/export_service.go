package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
	"github.com/noah-isme/dataacademy-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders result sets as CSV or PDF downloads.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render converts a result set into the requested format.
func (s *ExportService) Render(result *models.ResultSet, format string) (*ExportFile, error) {
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}
	exportFormat := models.ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	if exportFormat == "" {
		exportFormat = models.ExportFormatCSV
	}

	dataset := export.Dataset{Headers: result.Columns, Rows: result.Records}
	var (
		payload []byte
		err     error
	)
	switch exportFormat {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, titleFor(result.Name))
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, wrapError(err, "failed to render export")
	}

	s.logger.Info("export rendered",
		zap.String("name", result.Name),
		zap.String("format", string(exportFormat)),
		zap.Int("rows", result.RowCount),
	)
	return &ExportFile{
		Filename:    buildFilename(result.Name, exportFormat, s.now()),
		ContentType: exportFormat.ContentType(),
		Data:        payload,
	}, nil
}

func buildFilename(name string, format models.ExportFormat, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(name), at.UTC().Format("20060102_150405"), format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func titleFor(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", "-"), "-")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

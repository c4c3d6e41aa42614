package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type bulkRepository interface {
	Load(ctx context.Context, tables []models.TableData, opts models.LoadOptions) (map[string]int, error)
}

type cellKind int

const (
	cellText cellKind = iota
	cellInt
	cellDate
)

type columnSpec struct {
	name     string
	kind     cellKind
	nullable bool
}

type tableSpec struct {
	table   string
	file    string
	columns []columnSpec
}

// Dumps are loaded in this order so referenced rows exist first.
var tableSpecs = []tableSpec{
	{table: "teacher", file: "teachers.csv", columns: []columnSpec{
		{name: "id", kind: cellInt},
		{name: "first_name"},
		{name: "last_name"},
		{name: "email"},
		{name: "bio", nullable: true},
	}},
	{table: "student", file: "students.csv", columns: []columnSpec{
		{name: "id", kind: cellInt},
		{name: "first_name"},
		{name: "last_name"},
		{name: "email"},
		{name: "registration_date", kind: cellDate},
	}},
	{table: "course", file: "courses.csv", columns: []columnSpec{
		{name: "id", kind: cellInt},
		{name: "title"},
		{name: "description", nullable: true},
		{name: "level"},
		{name: "credits", kind: cellInt},
		{name: "start_date", kind: cellDate, nullable: true},
		{name: "end_date", kind: cellDate, nullable: true},
		{name: "teacher_id", kind: cellInt},
	}},
	{table: "enrollment", file: "enrollments.csv", columns: []columnSpec{
		{name: "id", kind: cellInt},
		{name: "student_id", kind: cellInt},
		{name: "course_id", kind: cellInt},
		{name: "enrollment_date", kind: cellDate},
		{name: "status"},
		{name: "final_grade", nullable: true},
	}},
}

// LoaderService bulk loads the CSV dumps.
type LoaderService struct {
	repo   bulkRepository
	logger *zap.Logger
}

// NewLoaderService constructs a LoaderService.
func NewLoaderService(repo bulkRepository, logger *zap.Logger) *LoaderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoaderService{repo: repo, logger: logger}
}

// Load parses every dump in fsys and copies them in one transaction.
func (s *LoaderService) Load(ctx context.Context, fsys fs.FS, opts models.LoadOptions) (*models.LoadSummary, error) {
	tables := make([]models.TableData, 0, len(tableSpecs))
	for _, spec := range tableSpecs {
		table, err := parseTable(fsys, spec)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s", spec.file))
		}
		s.logger.Debug("parsed dump", zap.String("file", spec.file), zap.Int("rows", len(table.Rows)))
		tables = append(tables, table)
	}

	start := time.Now()
	counts, err := s.repo.Load(ctx, tables, opts)
	if err != nil {
		return nil, wrapError(err, "failed to load data")
	}
	for _, spec := range tableSpecs {
		s.logger.Info("table loaded", zap.String("table", spec.table), zap.Int("rows", counts[spec.table]))
	}
	s.logger.Info("bulk load finished", zap.Duration("duration", time.Since(start)), zap.Bool("truncated", opts.Truncate))
	return &models.LoadSummary{Counts: counts}, nil
}

func parseTable(fsys fs.FS, spec tableSpec) (models.TableData, error) {
	table := models.TableData{Name: spec.table, Columns: make([]string, 0, len(spec.columns))}
	for _, column := range spec.columns {
		table.Columns = append(table.Columns, column.name)
	}

	file, err := fsys.Open(spec.file)
	if err != nil {
		return table, fmt.Errorf("open %s: %w", spec.file, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(spec.columns)
	header, err := reader.Read()
	if err != nil {
		return table, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) != spec.columns[i].name {
			return table, fmt.Errorf("column %d is %q, want %q", i+1, name, spec.columns[i].name)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table, fmt.Errorf("read line %d: %w", line, err)
		}
		row := make([]interface{}, len(record))
		for i, raw := range record {
			value, err := parseCell(spec.columns[i], raw)
			if err != nil {
				return table, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = value
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseCell(column columnSpec, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if column.nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%s is required", column.name)
	}
	switch column.kind {
	case cellInt:
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", column.name, raw)
		}
		return value, nil
	case cellDate:
		date, err := models.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", column.name, err)
		}
		return date.Format(models.DateLayout), nil
	default:
		return raw, nil
	}
}

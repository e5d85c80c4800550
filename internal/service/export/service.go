package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

// ErrNoRecords indicates the requested range matched nothing; no file is produced.
var ErrNoRecords = errors.New("no records match the requested range")

// Headers follow the record struct field declaration order.
var (
	productionHeader = []string{"id", "date", "batchNumber", "itemCode", "quantity", "productionCost", "notes"}
	salesHeader      = []string{"id", "date", "time", "itemName", "itemCode", "itemColor", "itemSize", "quantity", "sellingPrice", "notes"}
)

// Service produces the one-way export formats: RFC 4180 CSV files and the
// JSON backup archive, plus the restore path for archives.
type Service struct {
	repo      repository.Repository
	backupDir string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new export service instance.
func NewService(repo repository.Repository, backupDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, backupDir: backupDir, logger: logger, now: time.Now}
}

// ProductionCSV renders production records within the inclusive date range as
// CSV. Zero-valued bounds leave that side of the range open.
func (s *Service) ProductionCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	records, err := s.repo.ListProduction(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production records: %w", err)
	}

	rows := [][]string{}
	for _, record := range records {
		if !inRange(record.Date, from, to) {
			continue
		}
		rows = append(rows, []string{
			record.ID,
			record.Date,
			record.BatchNumber,
			record.ItemCode,
			strconv.Itoa(record.Quantity),
			formatFloat(record.ProductionCost),
			record.Notes,
		})
	}

	return renderCSV(productionHeader, rows)
}

// SalesCSV renders sale records within the inclusive date range as CSV.
func (s *Service) SalesCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	records, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sale records: %w", err)
	}

	rows := [][]string{}
	for _, record := range records {
		if !inRange(record.Date, from, to) {
			continue
		}
		rows = append(rows, []string{
			record.ID,
			record.Date,
			record.Time,
			record.ItemName,
			record.ItemCode,
			record.ItemColor,
			record.ItemSize,
			strconv.Itoa(record.Quantity),
			formatFloat(record.SellingPrice),
			record.Notes,
		})
	}

	return renderCSV(salesHeader, rows)
}

// CreateBackup snapshots both collections into a pretty-printed JSON archive,
// writes it under the backup directory and returns the filename with the
// encoded bytes.
func (s *Service) CreateBackup(ctx context.Context) (models.BackupArchive, string, []byte, error) {
	production, err := s.repo.ListProduction(ctx)
	if err != nil {
		return models.BackupArchive{}, "", nil, fmt.Errorf("load production records: %w", err)
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return models.BackupArchive{}, "", nil, fmt.Errorf("load sale records: %w", err)
	}

	timestamp := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	archive := models.BackupArchive{
		Timestamp:  timestamp,
		Production: production,
		Sales:      sales,
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return models.BackupArchive{}, "", nil, fmt.Errorf("encode backup archive: %w", err)
	}

	filename := fmt.Sprintf("backup-%s.json", strings.NewReplacer(":", "-", ".", "-").Replace(timestamp))
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return models.BackupArchive{}, "", nil, fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(s.backupDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.BackupArchive{}, "", nil, fmt.Errorf("write backup %s: %w", path, err)
	}

	s.logger.Info("backup archive written",
		zap.String("path", path),
		zap.Int("production_records", len(production)),
		zap.Int("sale_records", len(sales)))

	return archive, filename, data, nil
}

// Restore replaces both collections with the contents of a backup archive.
func (s *Service) Restore(ctx context.Context, data []byte) (models.BackupArchive, error) {
	var archive models.BackupArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return models.BackupArchive{}, fmt.Errorf("parse backup archive: %w", err)
	}

	if err := s.repo.ReplaceAll(ctx, archive.Production, archive.Sales); err != nil {
		return models.BackupArchive{}, fmt.Errorf("restore archive: %w", err)
	}

	s.logger.Info("backup archive restored",
		zap.String("archive_timestamp", archive.Timestamp),
		zap.Int("production_records", len(archive.Production)),
		zap.Int("sale_records", len(archive.Sales)))

	return archive, nil
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// inRange keeps records whose calendar date falls within [from, to]; a
// zero bound leaves that side open. Unparseable dates are kept so malformed
// records remain visible in exports.
func inRange(date string, from, to time.Time) bool {
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return true
	}
	if !from.IsZero() && parsed.Before(from) {
		return false
	}
	if !to.IsZero() && parsed.After(to) {
		return false
	}
	return true
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

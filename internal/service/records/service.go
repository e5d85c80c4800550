package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
	"uniformledger/internal/repository/sheets"
)

// ErrInvalidRecord indicates the submitted record failed validation; nothing
// is stored.
var ErrInvalidRecord = errors.New("invalid record")

// Service owns the append/remove path of both record collections. Records
// enter the system only through here, which keeps the single-writer
// assumption of the stores intact.
type Service struct {
	repo   repository.Repository
	mirror sheets.Mirror
	logger *zap.Logger
	newID  func() string
}

// NewService wires a new records service. mirror may be nil when the
// spreadsheet mirror is not configured.
func NewService(repo repository.Repository, mirror sheets.Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		mirror: mirror,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// AddProduction validates, assigns an id and persists a production record.
func (s *Service) AddProduction(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error) {
	if _, err := record.ParsedDate(); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: date must be %s", ErrInvalidRecord, models.DateLayout)
	}
	if record.ItemCode == "" {
		return models.ProductionRecord{}, fmt.Errorf("%w: itemCode must not be empty", ErrInvalidRecord)
	}
	if record.Quantity < 0 {
		return models.ProductionRecord{}, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRecord)
	}
	if record.ProductionCost < 0 {
		return models.ProductionRecord{}, fmt.Errorf("%w: productionCost must not be negative", ErrInvalidRecord)
	}

	record.ID = s.newID()
	if err := s.repo.InsertProduction(ctx, record); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("insert production record: %w", err)
	}

	s.logger.Info("production record added",
		zap.String("id", record.ID),
		zap.String("item_code", record.ItemCode),
		zap.Int("quantity", record.Quantity))

	if s.mirror != nil {
		if err := s.mirror.AppendProductionRow(ctx, record); err != nil {
			s.logger.Warn("spreadsheet mirror append failed", zap.String("id", record.ID), zap.Error(err))
		}
	}

	return record, nil
}

// AddSale validates, assigns an id and persists a sale record.
func (s *Service) AddSale(ctx context.Context, record models.SaleRecord) (models.SaleRecord, error) {
	if _, err := record.ParsedDate(); err != nil {
		return models.SaleRecord{}, fmt.Errorf("%w: date must be %s", ErrInvalidRecord, models.DateLayout)
	}
	if record.Time != "" {
		if _, err := time.Parse(models.TimeLayout, record.Time); err != nil {
			return models.SaleRecord{}, fmt.Errorf("%w: time must be %s", ErrInvalidRecord, models.TimeLayout)
		}
	}
	if record.ItemCode == "" {
		return models.SaleRecord{}, fmt.Errorf("%w: itemCode must not be empty", ErrInvalidRecord)
	}
	if record.Quantity < 0 {
		return models.SaleRecord{}, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRecord)
	}
	if record.SellingPrice < 0 {
		return models.SaleRecord{}, fmt.Errorf("%w: sellingPrice must not be negative", ErrInvalidRecord)
	}

	record.ID = s.newID()
	if err := s.repo.InsertSale(ctx, record); err != nil {
		return models.SaleRecord{}, fmt.Errorf("insert sale record: %w", err)
	}

	s.logger.Info("sale record added",
		zap.String("id", record.ID),
		zap.String("item_code", record.ItemCode),
		zap.Int("quantity", record.Quantity))

	if s.mirror != nil {
		if err := s.mirror.AppendSaleRow(ctx, record); err != nil {
			s.logger.Warn("spreadsheet mirror append failed", zap.String("id", record.ID), zap.Error(err))
		}
	}

	return record, nil
}

// RemoveProduction deletes a production record by id.
func (s *Service) RemoveProduction(ctx context.Context, id string) error {
	return s.repo.DeleteProduction(ctx, id)
}

// RemoveSale deletes a sale record by id.
func (s *Service) RemoveSale(ctx context.Context, id string) error {
	return s.repo.DeleteSale(ctx, id)
}

// ListProduction returns all production records in insertion order.
func (s *Service) ListProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	return s.repo.ListProduction(ctx)
}

// ListSales returns all sale records in insertion order.
func (s *Service) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	return s.repo.ListSales(ctx)
}

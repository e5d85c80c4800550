package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

// Service derives stock, financial metrics and time series from the raw
// record collections. Nothing is cached: every call recomputes from a fresh
// snapshot of both stores.
type Service struct {
	repo   repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new dashboard service instance.
func NewService(repo repository.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Summary loads both collections and aggregates them.
func (s *Service) Summary(ctx context.Context) (models.DashboardSummary, error) {
	production, sales, err := s.snapshot(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return Summarize(production, sales), nil
}

// TimeSeries loads both collections and buckets them at the requested granularity.
func (s *Service) TimeSeries(ctx context.Context, granularity models.Granularity) ([]models.TimeBucket, error) {
	production, sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.series(granularity, s.now(), production, sales), nil
}

func (s *Service) snapshot(ctx context.Context) ([]models.ProductionRecord, []models.SaleRecord, error) {
	production, err := s.repo.ListProduction(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load production records: %w", err)
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load sale records: %w", err)
	}
	return production, sales, nil
}

// Summarize aggregates the full record collections into per-item stock
// entries and portfolio totals. Pure function of its inputs; deterministic
// for a fixed input order.
func Summarize(production []models.ProductionRecord, sales []models.SaleRecord) models.DashboardSummary {
	stock := make(map[string]models.StockEntry)
	var totalInvestment, totalSales float64
	untracked := 0

	for _, record := range production {
		entry := stock[record.ItemCode]
		oldProduced := entry.Produced
		entry.Produced += record.Quantity
		if entry.Produced > 0 {
			entry.AverageCost = (entry.AverageCost*float64(oldProduced) +
				record.ProductionCost*float64(record.Quantity)) / float64(entry.Produced)
		}
		totalInvestment += float64(record.Quantity) * record.ProductionCost
		stock[record.ItemCode] = entry
	}

	// Sales for an item code with no production history are excluded from
	// stock and revenue; the count is surfaced so the drop is observable.
	for _, record := range sales {
		entry, ok := stock[record.ItemCode]
		if !ok {
			untracked++
			continue
		}
		entry.Sold += record.Quantity
		totalSales += float64(record.Quantity) * record.SellingPrice
		stock[record.ItemCode] = entry
	}

	for code, entry := range stock {
		entry.InStock = entry.Produced - entry.Sold
		stock[code] = entry
	}

	// ROI reports 0 when nothing was invested, never NaN or Inf.
	roi := 0.0
	if totalInvestment != 0 {
		roi = (totalSales - totalInvestment) / totalInvestment * 100
	}

	return models.DashboardSummary{
		Stock:           stock,
		TotalInvestment: totalInvestment,
		TotalSales:      totalSales,
		ROI:             roi,
		UntrackedSales:  untracked,
	}
}

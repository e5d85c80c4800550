package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository/memory"
)

func production(code string, qty int, cost float64) models.ProductionRecord {
	return models.ProductionRecord{Date: "2024-03-01", ItemCode: code, Quantity: qty, ProductionCost: cost}
}

func sale(code string, qty int, price float64) models.SaleRecord {
	return models.SaleRecord{Date: "2024-03-05", ItemCode: code, Quantity: qty, SellingPrice: price}
}

func TestSummarizeSingleItem(t *testing.T) {
	summary := Summarize(
		[]models.ProductionRecord{production("A", 10, 5.00)},
		[]models.SaleRecord{sale("A", 4, 12.00)},
	)

	entry := summary.Stock["A"]
	assert.Equal(t, 10, entry.Produced)
	assert.Equal(t, 4, entry.Sold)
	assert.Equal(t, 6, entry.InStock)
	assert.InDelta(t, 5.00, entry.AverageCost, 1e-9)

	assert.InDelta(t, 50.00, summary.TotalInvestment, 1e-9)
	assert.InDelta(t, 48.00, summary.TotalSales, 1e-9)
	assert.InDelta(t, -4.00, summary.ROI, 1e-9)
}

func TestSummarizeWeightedAverageCost(t *testing.T) {
	summary := Summarize([]models.ProductionRecord{
		production("B", 10, 4.00),
		production("B", 20, 7.00),
	}, nil)

	// (10*4 + 20*7) / 30
	assert.InDelta(t, 6.00, summary.Stock["B"].AverageCost, 1e-9)
	assert.Equal(t, 30, summary.Stock["B"].Produced)
}

func TestSummarizeAverageCostUnaffectedByInterleaving(t *testing.T) {
	interleaved := Summarize([]models.ProductionRecord{
		production("B", 10, 4.00),
		production("C", 99, 1.25),
		production("B", 20, 7.00),
		production("D", 3, 80.00),
	}, nil)
	grouped := Summarize([]models.ProductionRecord{
		production("B", 10, 4.00),
		production("B", 20, 7.00),
		production("C", 99, 1.25),
		production("D", 3, 80.00),
	}, nil)

	assert.InDelta(t, grouped.Stock["B"].AverageCost, interleaved.Stock["B"].AverageCost, 1e-9)
	assert.InDelta(t, 6.00, interleaved.Stock["B"].AverageCost, 1e-9)
}

func TestSummarizeAllowsNegativeStock(t *testing.T) {
	summary := Summarize(
		[]models.ProductionRecord{production("A", 2, 5.00)},
		[]models.SaleRecord{sale("A", 5, 10.00)},
	)

	assert.Equal(t, -3, summary.Stock["A"].InStock)
}

func TestSummarizeROIWithZeroInvestment(t *testing.T) {
	summary := Summarize(nil, []models.SaleRecord{sale("A", 5, 10.00)})

	assert.Equal(t, 0.0, summary.ROI)
	assert.False(t, summary.ROI != summary.ROI, "roi must not be NaN")
}

func TestSummarizeSkipsSalesWithoutProductionHistory(t *testing.T) {
	summary := Summarize(
		[]models.ProductionRecord{production("A", 10, 5.00)},
		[]models.SaleRecord{sale("A", 1, 12.00), sale("GHOST", 4, 9.00)},
	)

	_, tracked := summary.Stock["GHOST"]
	assert.False(t, tracked)
	assert.InDelta(t, 12.00, summary.TotalSales, 1e-9)
	assert.Equal(t, 1, summary.UntrackedSales)
}

func TestSeriesDaily(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	buckets := Series(models.GranularityDaily, now, nil, []models.SaleRecord{
		{Date: "2024-03-08", ItemCode: "A", Quantity: 3},
	})

	require.Len(t, buckets, 8)

	matched := 0
	for _, bucket := range buckets {
		if bucket.SalesTotal > 0 {
			matched++
			assert.Equal(t, 3, bucket.SalesTotal)
			assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), bucket.PeriodStart)
		}
	}
	assert.Equal(t, 1, matched)
}

func TestSeriesDailyDropsOutOfWindowRecords(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	buckets := Series(models.GranularityDaily, now, []models.ProductionRecord{
		{Date: "2024-02-01", ItemCode: "A", Quantity: 7},
	}, nil)

	for _, bucket := range buckets {
		assert.Zero(t, bucket.ProductionTotal)
	}
}

func TestSeriesWeeklyAssignsByWeekBoundary(t *testing.T) {
	// 2024-03-10 is a Sunday; the sale on the 9th lands in the prior week.
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	buckets := Series(models.GranularityWeekly, now, nil, []models.SaleRecord{
		{Date: "2024-03-09", ItemCode: "A", Quantity: 2},
		{Date: "2024-03-10", ItemCode: "A", Quantity: 5},
	})

	require.NotEmpty(t, buckets)
	last := buckets[len(buckets)-1]
	assert.Equal(t, 5, last.SalesTotal)
	assert.Equal(t, 2, buckets[len(buckets)-2].SalesTotal)

	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i].PeriodStart.After(buckets[i-1].PeriodStart))
		assert.Equal(t, time.Sunday, buckets[i].PeriodStart.Weekday())
	}
}

func TestSeriesMonthlyMatchesMonthAndYear(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	buckets := Series(models.GranularityMonthly, now, []models.ProductionRecord{
		{Date: "2024-04-10", ItemCode: "A", Quantity: 4},
		{Date: "2023-04-10", ItemCode: "A", Quantity: 9}, // same month, wrong year
	}, nil)

	require.Len(t, buckets, 7)
	for _, bucket := range buckets {
		if bucket.PeriodStart.Month() == time.April {
			assert.Equal(t, 4, bucket.ProductionTotal)
		}
	}
}

func TestSeriesYearlyMergesAcrossYears(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	buckets := Series(models.GranularityYearly, now, []models.ProductionRecord{
		{Date: "2024-02-10", ItemCode: "A", Quantity: 4},
		{Date: "2023-02-20", ItemCode: "A", Quantity: 6}, // merges by month-of-year
	}, nil)

	require.Len(t, buckets, 3)
	assert.Equal(t, "Feb", buckets[1].Label)
	assert.Equal(t, 10, buckets[1].ProductionTotal)
}

func TestTimeSeriesReadsFromRepository(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.InsertSale(ctx, models.SaleRecord{ID: "s1", Date: "2024-03-08", ItemCode: "A", Quantity: 3}))

	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) }

	buckets, err := svc.TimeSeries(ctx, models.GranularityDaily)
	require.NoError(t, err)

	total := 0
	for _, bucket := range buckets {
		total += bucket.SalesTotal
	}
	assert.Equal(t, 3, total)
}

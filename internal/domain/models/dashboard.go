package models

import (
	"fmt"
	"time"
)

// StockEntry holds the derived inventory position for one item code.
// InStock may go negative when sales exceed recorded production.
type StockEntry struct {
	Produced    int     `json:"produced"`
	Sold        int     `json:"sold"`
	InStock     int     `json:"inStock"`
	AverageCost float64 `json:"averageCost"`
}

// DashboardSummary is the portfolio-wide view recomputed on every read.
// UntrackedSales counts sale records whose item code has no production
// history; those are excluded from stock and revenue.
type DashboardSummary struct {
	Stock           map[string]StockEntry `json:"stock"`
	TotalInvestment float64               `json:"totalInvestment"`
	TotalSales      float64               `json:"totalSales"`
	ROI             float64               `json:"roi"`
	UntrackedSales  int                   `json:"untrackedSales"`
}

// Granularity selects the time-series bucketing rules.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ParseGranularity validates a user-supplied granularity selector.
func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(value) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return Granularity(value), nil
	default:
		return "", fmt.Errorf("unknown granularity %q", value)
	}
}

// TimeBucket is one period of the derived time series.
type TimeBucket struct {
	Label           string    `json:"label"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
	SalesTotal      int       `json:"salesTotal"`
	ProductionTotal int       `json:"productionTotal"`
}

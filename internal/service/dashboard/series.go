package dashboard

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
)

func (s *Service) series(granularity models.Granularity, now time.Time, production []models.ProductionRecord, sales []models.SaleRecord) []models.TimeBucket {
	buckets := Series(granularity, now, production, sales)
	s.logger.Debug("time series computed",
		zap.String("granularity", string(granularity)),
		zap.Int("buckets", len(buckets)))
	return buckets
}

// Series buckets both record collections over the lookback window of the
// requested granularity. Buckets are returned in chronological order and the
// result is deterministic for a fixed now. Records outside the window, or
// with unparseable dates, are dropped silently.
func Series(granularity models.Granularity, now time.Time, production []models.ProductionRecord, sales []models.SaleRecord) []models.TimeBucket {
	// Record dates parse as UTC; keep the bucket grid in the same location
	// so containment checks compare calendar dates, not instants.
	now = now.UTC()
	buckets := makeBuckets(granularity, now)

	for _, record := range production {
		date, err := record.ParsedDate()
		if err != nil {
			continue
		}
		if i := bucketIndex(granularity, buckets, date); i >= 0 {
			buckets[i].ProductionTotal += record.Quantity
		}
	}

	for _, record := range sales {
		date, err := record.ParsedDate()
		if err != nil {
			continue
		}
		if i := bucketIndex(granularity, buckets, date); i >= 0 {
			buckets[i].SalesTotal += record.Quantity
		}
	}

	return buckets
}

func makeBuckets(granularity models.Granularity, now time.Time) []models.TimeBucket {
	var buckets []models.TimeBucket

	switch granularity {
	case models.GranularityWeekly:
		// Sunday-aligned weeks covering the last 28 days.
		for w := startOfWeek(now.AddDate(0, 0, -28)); !w.After(now); w = w.AddDate(0, 0, 7) {
			buckets = append(buckets, models.TimeBucket{
				Label:       fmt.Sprintf("Week %d", weekOfYear(w)),
				PeriodStart: w,
				PeriodEnd:   w.AddDate(0, 0, 7),
			})
		}
	case models.GranularityMonthly:
		limit := startOfMonth(now)
		for m := startOfMonth(now.AddDate(0, -6, 0)); !m.After(limit); m = m.AddDate(0, 1, 0) {
			buckets = append(buckets, models.TimeBucket{
				Label:       m.Format("Jan 2006"),
				PeriodStart: m,
				PeriodEnd:   m.AddDate(0, 1, 0),
			})
		}
	case models.GranularityYearly:
		limit := startOfMonth(now)
		for m := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()); !m.After(limit); m = m.AddDate(0, 1, 0) {
			buckets = append(buckets, models.TimeBucket{
				Label:       m.Format("Jan"),
				PeriodStart: m,
				PeriodEnd:   m.AddDate(0, 1, 0),
			})
		}
	default: // daily
		end := startOfDay(now)
		for d := startOfDay(now.AddDate(0, 0, -7)); !d.After(end); d = d.AddDate(0, 0, 1) {
			buckets = append(buckets, models.TimeBucket{
				Label:       d.Format("Jan 2"),
				PeriodStart: d,
				PeriodEnd:   d.AddDate(0, 0, 1),
			})
		}
	}

	return buckets
}

func bucketIndex(granularity models.Granularity, buckets []models.TimeBucket, date time.Time) int {
	for i, bucket := range buckets {
		switch granularity {
		case models.GranularityWeekly:
			if !date.Before(bucket.PeriodStart) && date.Before(bucket.PeriodEnd) {
				return i
			}
		case models.GranularityMonthly:
			if date.Month() == bucket.PeriodStart.Month() && date.Year() == bucket.PeriodStart.Year() {
				return i
			}
		case models.GranularityYearly:
			// Month-of-year only: records from different years sharing a
			// month merge into the same bucket.
			if date.Month() == bucket.PeriodStart.Month() {
				return i
			}
		default: // daily
			if startOfDay(date).Equal(bucket.PeriodStart) {
				return i
			}
		}
	}
	return -1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// weekOfYear numbers Sunday-start weeks, counting the week containing
// January 1 as week 1.
func weekOfYear(t time.Time) int {
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return int(startOfWeek(t).Sub(startOfWeek(yearStart)).Hours()/(24*7)) + 1
}

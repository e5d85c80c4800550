package models

import "time"

// DateLayout is the calendar-date format carried by all records.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format carried by sale records.
const TimeLayout = "15:04"

// ProductionRecord captures one manufactured batch. Records are append-only
// and removable by id, never mutated. Field declaration order defines the
// CSV export column order.
type ProductionRecord struct {
	ID             string  `json:"id" bson:"id"`
	Date           string  `json:"date" bson:"date"`
	BatchNumber    string  `json:"batchNumber" bson:"batch_number"`
	ItemCode       string  `json:"itemCode" bson:"item_code"`
	Quantity       int     `json:"quantity" bson:"quantity"`
	ProductionCost float64 `json:"productionCost" bson:"production_cost"`
	Notes          string  `json:"notes" bson:"notes"`
}

// ParsedDate returns the record's calendar date.
func (r ProductionRecord) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// SaleRecord captures one sales transaction.
type SaleRecord struct {
	ID           string  `json:"id" bson:"id"`
	Date         string  `json:"date" bson:"date"`
	Time         string  `json:"time" bson:"time"`
	ItemName     string  `json:"itemName" bson:"item_name"`
	ItemCode     string  `json:"itemCode" bson:"item_code"`
	ItemColor    string  `json:"itemColor" bson:"item_color"`
	ItemSize     string  `json:"itemSize" bson:"item_size"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	SellingPrice float64 `json:"sellingPrice" bson:"selling_price"`
	Notes        string  `json:"notes" bson:"notes"`
}

// ParsedDate returns the record's calendar date.
func (r SaleRecord) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

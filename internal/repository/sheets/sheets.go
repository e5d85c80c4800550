package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"uniformledger/internal/config"
	"uniformledger/internal/domain/models"
)

const (
	productionRange = "Production!A:G"
	salesRange      = "Sales!A:J"
)

// Mirror receives a copy of every saved record. The mirror is best-effort:
// callers log failures and keep going.
type Mirror interface {
	AppendProductionRow(ctx context.Context, record models.ProductionRecord) error
	AppendSaleRow(ctx context.Context, record models.SaleRecord) error
}

// GoogleSheetMirror appends saved records to a spreadsheet using the official
// Google Sheets API.
type GoogleSheetMirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetMirror builds a Google Sheets backed mirror instance.
func NewGoogleSheetMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetMirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetMirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendProductionRow mirrors one production record.
func (m *GoogleSheetMirror) AppendProductionRow(ctx context.Context, record models.ProductionRecord) error {
	values := []interface{}{record.ID, record.Date, record.BatchNumber, record.ItemCode, record.Quantity, record.ProductionCost, record.Notes}
	return m.appendRow(ctx, productionRange, values)
}

// AppendSaleRow mirrors one sale record.
func (m *GoogleSheetMirror) AppendSaleRow(ctx context.Context, record models.SaleRecord) error {
	values := []interface{}{record.ID, record.Date, record.Time, record.ItemName, record.ItemCode, record.ItemColor, record.ItemSize, record.Quantity, record.SellingPrice, record.Notes}
	return m.appendRow(ctx, salesRange, values)
}

func (m *GoogleSheetMirror) appendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	m.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

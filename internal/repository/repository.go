package repository

import (
	"context"
	"errors"

	"uniformledger/internal/domain/models"
)

// ErrNotFound indicates the requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// Repository is the persistence boundary for the two record collections and
// the operator account. Every implementation preserves insertion order when
// listing records.
type Repository interface {
	ListProduction(ctx context.Context) ([]models.ProductionRecord, error)
	InsertProduction(ctx context.Context, record models.ProductionRecord) error
	DeleteProduction(ctx context.Context, id string) error

	ListSales(ctx context.Context) ([]models.SaleRecord, error)
	InsertSale(ctx context.Context, record models.SaleRecord) error
	DeleteSale(ctx context.Context, id string) error

	// ReplaceAll swaps both collections wholesale; used by the restore path.
	ReplaceAll(ctx context.Context, production []models.ProductionRecord, sales []models.SaleRecord) error

	GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	UpsertUser(ctx context.Context, user models.UserAccount) error
}

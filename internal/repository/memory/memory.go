package memory

import (
	"context"
	"strings"
	"sync"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

// Store is an in-memory Repository used by tests and the memory backend.
type Store struct {
	mu         sync.RWMutex
	production []models.ProductionRecord
	sales      []models.SaleRecord
	users      map[string]models.UserAccount
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users: make(map[string]models.UserAccount),
	}
}

// ListProduction returns the production records in insertion order.
func (s *Store) ListProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProductionRecord, len(s.production))
	copy(out, s.production)
	return out, nil
}

// InsertProduction appends a production record.
func (s *Store) InsertProduction(ctx context.Context, record models.ProductionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.production = append(s.production, record)
	return nil
}

// DeleteProduction removes a production record by id.
func (s *Store) DeleteProduction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.production {
		if record.ID == id {
			s.production = append(s.production[:i], s.production[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ListSales returns the sale records in insertion order.
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SaleRecord, len(s.sales))
	copy(out, s.sales)
	return out, nil
}

// InsertSale appends a sale record.
func (s *Store) InsertSale(ctx context.Context, record models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = append(s.sales, record)
	return nil
}

// DeleteSale removes a sale record by id.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.sales {
		if record.ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ReplaceAll swaps both collections wholesale.
func (s *Store) ReplaceAll(ctx context.Context, production []models.ProductionRecord, sales []models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.production = append([]models.ProductionRecord(nil), production...)
	s.sales = append([]models.SaleRecord(nil), sales...)
	return nil
}

// GetUserByEmail looks up an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

// UpsertUser creates or replaces the account keyed by email.
func (s *Store) UpsertUser(ctx context.Context, user models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[strings.ToLower(user.Email)] = user
	return nil
}

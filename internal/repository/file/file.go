package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

// Namespace files, one JSON array per collection. The names mirror the
// storage keys of the original dashboard so existing exports stay readable.
const (
	productionFile = "production-storage.json"
	salesFile      = "sales-storage.json"
	usersFile      = "user-credentials.json"
)

// Store is a flat-file Repository keeping each collection as a JSON array
// on disk. Collections are loaded once at open and every mutation rewrites
// the owning namespace file.
type Store struct {
	mu         sync.RWMutex
	dir        string
	production []models.ProductionRecord
	sales      []models.SaleRecord
	users      []storedUser
}

// storedUser carries the password hash that models.UserAccount hides from
// API responses.
type storedUser struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

// Open loads (or creates) the namespace files under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	s := &Store{dir: dir}
	if err := readNamespace(filepath.Join(dir, productionFile), &s.production); err != nil {
		return nil, err
	}
	if err := readNamespace(filepath.Join(dir, salesFile), &s.sales); err != nil {
		return nil, err
	}
	if err := readNamespace(filepath.Join(dir, usersFile), &s.users); err != nil {
		return nil, err
	}
	return s, nil
}

func readNamespace(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeNamespace(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ListProduction returns the production records in insertion order.
func (s *Store) ListProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProductionRecord, len(s.production))
	copy(out, s.production)
	return out, nil
}

// InsertProduction appends a production record and rewrites the namespace file.
func (s *Store) InsertProduction(ctx context.Context, record models.ProductionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.production = append(s.production, record)
	return s.writeNamespace(productionFile, s.production)
}

// DeleteProduction removes a production record by id.
func (s *Store) DeleteProduction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.production {
		if record.ID == id {
			s.production = append(s.production[:i], s.production[i+1:]...)
			return s.writeNamespace(productionFile, s.production)
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

// InsertSale appends a sale record and rewrites the namespace file.
func (s *Store) InsertSale(ctx context.Context, record models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = append(s.sales, record)
	return s.writeNamespace(salesFile, s.sales)
}

// DeleteSale removes a sale record by id.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.sales {
		if record.ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return s.writeNamespace(salesFile, s.sales)
		}
	}
	return repository.ErrNotFound
}

// ReplaceAll swaps both collections wholesale and rewrites both files.
func (s *Store) ReplaceAll(ctx context.Context, production []models.ProductionRecord, sales []models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.production = append([]models.ProductionRecord(nil), production...)
	s.sales = append([]models.SaleRecord(nil), sales...)

	if err := s.writeNamespace(productionFile, s.production); err != nil {
		return err
	}
	return s.writeNamespace(salesFile, s.sales)
}

// GetUserByEmail looks up an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			account := models.UserAccount{
				ID:           u.ID,
				FullName:     u.FullName,
				Email:        u.Email,
				PasswordHash: u.PasswordHash,
				Role:         u.Role,
			}
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpsertUser creates or replaces the account keyed by email.
func (s *Store) UpsertUser(ctx context.Context, user models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := storedUser{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	}

	for i, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			s.users[i] = stored
			return s.writeNamespace(usersFile, s.users)
		}
	}
	s.users = append(s.users, stored)
	return s.writeNamespace(usersFile, s.users)
}

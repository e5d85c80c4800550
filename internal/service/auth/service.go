package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"uniformledger/internal/config"
	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

// ErrInvalidCredentials covers empty, unknown and mismatched login attempts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrPasswordMismatch indicates the profile form's confirmation field did not
// match; nothing is persisted.
var ErrPasswordMismatch = errors.New("passwords do not match")

const defaultAdminPassword = "admin123"

// Claims is the token payload issued on login.
type Claims struct {
	jwtlib.RegisteredClaims
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginResult carries the signed token alongside the account it identifies.
type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserAccount `json:"user"`
}

// ProfileUpdate is the operator's editable credential set.
type ProfileUpdate struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Service authenticates the single local operator and manages their profile.
type Service struct {
	repo     repository.Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the auth service and seeds the default admin account when
// the user store is empty.
func NewService(repo repository.Repository, cfg config.AuthConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	secret := cfg.Secret
	if secret == "" {
		secret = "dev-change-me"
		logger.Warn("AUTH_SECRET not set, using development default")
	}

	s := &Service{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: cfg.TokenTTL,
		logger:   logger,
		now:      time.Now,
	}

	if err := s.seedAdmin(context.Background(), cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) seedAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if _, err := s.repo.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	password := cfg.AdminPassword
	if password == "" {
		password = defaultAdminPassword
		s.logger.Warn("ADMIN_PASSWORD not set, seeding default dev credentials", zap.String("email", cfg.AdminEmail))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	account := models.UserAccount{
		ID:           uuid.NewString(),
		FullName:     "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := s.repo.UpsertUser(ctx, account); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	return nil
}

// Login validates the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("load account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := s.now().UTC().Add(s.tokenTTL)
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(s.now().UTC()),
		},
		FullName: user.FullName,
		Role:     user.Role,
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

// UpdateProfile replaces the operator's credentials after the confirmation
// check passes.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.UserAccount, error) {
	if update.Password != update.ConfirmPassword {
		return models.UserAccount{}, ErrPasswordMismatch
	}
	if strings.TrimSpace(update.Email) == "" || update.Password == "" {
		return models.UserAccount{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserAccount{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.UserAccount{
		ID:           uuid.NewString(),
		FullName:     update.FullName,
		Email:        strings.TrimSpace(update.Email),
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if existing, err := s.repo.GetUserByEmail(ctx, account.Email); err == nil {
		account.ID = existing.ID
		account.Role = existing.Role
	}

	if err := s.repo.UpsertUser(ctx, account); err != nil {
		return models.UserAccount{}, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile updated", zap.String("email", account.Email))
	return account, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	userRepo "pharmabook/database/repository/user"
	"pharmabook/models"
	"pharmabook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * 24 * time.Hour

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates an account and signs the user in.
func (s *DefaultUserService) Register(input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, NewAuthError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(u)
}

// Authenticate verifies credentials and issues a fresh session token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	if u == nil {
		return nil, NewAuthError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, NewAuthError("invalid email or password")
	}

	return s.issueToken(u)
}

func (s *DefaultUserService) issueToken(u *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Repo.SetTokenHash(u.ID, utils.HashToken(token)); err != nil {
		return nil, fmt.Errorf("failed to persist session token: %w", err)
	}
	clearAuthCache(u.ID)
	s.Logger.Info("user signed in", zap.String("userId", u.ID))
	return &AuthResult{User: u, Token: token}, nil
}

// clearAuthCache drops the cached token hash so the middleware re-reads the
// stored hash on the next request. Skipping this would let a revoked token
// keep authenticating, or lock a freshly signed-in user out on a stale hash,
// until the cache entry expires.
func clearAuthCache(userID string) {
	cacheKey := utils.AuthCachePrefix + userID
	authCache := utils.GetAuthCacheClient()
	if err := authCache.Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Failed to clear auth cache", zap.Error(err))
	}
}

// GetByID retrieves a user by id.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}

// UpdateProfile updates name, phone and addresses.
func (s *DefaultUserService) UpdateProfile(id string, input ProfileInput) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		u.Name = strings.TrimSpace(input.Name)
	}
	if input.Phone != "" {
		u.Phone = strings.TrimSpace(input.Phone)
	}
	if input.Address != nil {
		u.Address = input.Address
	}
	if input.ShippingAddress != nil {
		u.ShippingAddress = input.ShippingAddress
	}

	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// RevokeToken invalidates the user's active session token.
func (s *DefaultUserService) RevokeToken(id string) error {
	if err := s.Repo.SetTokenHash(id, ""); err != nil {
		return err
	}
	clearAuthCache(id)
	return nil
}

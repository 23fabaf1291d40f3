package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

const bcryptCost = 12

// tokenStore keeps opaque refresh tokens.
type tokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// ErrTokenNotFound is returned by a tokenStore for unknown or expired keys.
var ErrTokenNotFound = errors.New("token not found")

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return val, err
}

func (s *RedisTokenStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

type AuthService struct {
	users      userStore
	tokens     tokenStore
	jwt        *middleware.JWTAuth
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewAuthService(users userStore, tokens tokenStore, jwt *middleware.JWTAuth, refreshTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	fieldErrors := make(map[string]string)
	if err := validateStruct(req); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		for k, v := range verr.Fields {
			fieldErrors[k] = v
		}
	}
	if _, ok := fieldErrors["password"]; !ok {
		if err := validatePassword(req.Password); err != nil {
			fieldErrors["password"] = err.Error()
		}
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err := s.newUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	if req.Role == models.RoleTeacher && strings.TrimSpace(req.Subject) != "" {
		subject := strings.TrimSpace(req.Subject)
		user.Subject = &subject
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration won the unique email index.
		if isPgError(err, pgUniqueViolation) {
			return nil, &ConflictError{Message: "Email already in use"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Stringer("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}
	if user.Role == models.RoleTeacher && !user.IsApproved {
		return nil, &ForbiddenError{Message: "Your teacher account is awaiting admin approval"}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if refreshToken == "" {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	userIDStr, err := s.tokens.Get(ctx, refreshKey(refreshToken))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
		}
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	// Rotation: a refresh token is single use.
	if err := s.tokens.Del(ctx, refreshKey(refreshToken)); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Account no longer exists"}
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Del(ctx, refreshKey(refreshToken))
}

// Me returns the profile of the authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Account no longer exists"}
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the admin account unless one with the same email
// already exists. The boolean reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	if err := validatePassword(password); err != nil {
		return nil, false, &ValidationError{Fields: map[string]string{"password": err.Error()}}
	}

	user, err := s.newUser(name, email, password, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isPgError(err, pgUniqueViolation) {
			existing, getErr := s.users.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin created", zap.Stringer("user_id", user.ID))
	return user, true, nil
}

func (s *AuthService) newUser(name, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsApproved:   role != models.RoleTeacher,
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Set(ctx, refreshKey(refreshToken), user.ID.String(), s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwt.TTL.Seconds()),
		User:         user,
	}, nil
}

func refreshKey(token string) string {
	return "refresh:" + token
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			return nil
		}
	}
	return fmt.Errorf("Password must contain at least one number")
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

const minPasswordLength = 8

type AuthConfig struct {
	JWTSecret       []byte
	GoogleClientID  string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// AdminUsernames are granted admin rights when they register.
	AdminUsernames []string
}

type accessClaims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo            ports.UserRepository
	authRepo            ports.AuthRepository
	googleTokenVerifier ports.TokenVerifier
	cfg                 AuthConfig
	now                 Clock
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, googleTokenVerifier ports.TokenVerifier, cfg AuthConfig, now Clock) *AuthService {
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:            userRepo,
		authRepo:            authRepo,
		googleTokenVerifier: googleTokenVerifier,
		cfg:                 cfg,
		now:                 now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user := &domain.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidUser, minPasswordLength)
	}

	existing, err := s.userRepo.GetByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.IsAdmin = slices.Contains(s.cfg.AdminUsernames, user.Username)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, ports.Tokens, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, ports.Tokens{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.CanLoginWithPassword() {
		return nil, ports.Tokens{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ports.Tokens{}, domain.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, ports.Tokens{}, err
	}
	return user, tokens, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (*domain.User, ports.Tokens, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, ports.Tokens{}, fmt.Errorf("%w: invalid google token: %v", domain.ErrInvalidCredentials, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		return nil, ports.Tokens{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &domain.User{
			Username: payload.Email,
			Email:    payload.Email,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, ports.Tokens{}, fmt.Errorf("failed to create user: %w", err)
		}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, ports.Tokens{}, err
	}
	return user, tokens, nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*ports.Identity, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}

	return &ports.Identity{
		UserID:   userID,
		Username: claims.Username,
		IsAdmin:  claims.Admin,
	}, nil
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (ports.Tokens, error) {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return ports.Tokens{}, fmt.Errorf("%w: refresh token not found", domain.ErrUnauthorized)
	}

	if rtEntity.Revoked {
		return ports.Tokens{}, fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthorized)
	}
	if rtEntity.Expired(s.now()) {
		return ports.Tokens{}, fmt.Errorf("%w: refresh token expired", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ports.Tokens{}, domain.ErrUserNotFound
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	// The refresh token is not rotated; it lives until expiry or logout.
	return ports.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (ports.Tokens, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: s.now().Add(s.cfg.RefreshTokenTTL),
	}

	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return ports.Tokens{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return ports.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	if len(s.cfg.JWTSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.now()
	claims := accessClaims{
		Username: user.Username,
		Admin:    user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWTSecret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

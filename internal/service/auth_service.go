package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse describes the signed-in account plus the role flags the
// access policy derives from its email.
type SessionResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	IsAdmin            bool      `json:"is_admin"`
	IsSuperAdmin       bool      `json:"is_super_admin"`
	CanManageCustomers bool      `json:"can_manage_customers"`
}

// AuthService handles account registration and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Session(ctx context.Context, email string) (*SessionResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	access *policy.AccessPolicy
	jwtCfg config.JWTConfig
}

func NewAuthService(repo repository.UserRepository, access *policy.AccessPolicy, jwtCfg config.JWTConfig) AuthService {
	return &authService{repo: repo, access: access, jwtCfg: jwtCfg}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func (s *authService) session(user *model.User) *SessionResponse {
	normalized := policy.Normalize(user.Email)
	return &SessionResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              normalized,
		IsAdmin:            s.access.IsAuthorizedAdmin(normalized),
		IsSuperAdmin:       s.access.IsSuperAdmin(normalized),
		CanManageCustomers: s.access.CanManageCustomers(normalized),
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	email := policy.Normalize(req.Email)
	if !emailRegex.MatchString(email) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid email format")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, apperrors.ErrInternal.Message)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, apperrors.ErrStore.Message)
	}

	return s.session(user), nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenPair, *SessionResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperrors.Clone(apperrors.ErrUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, apperrors.Clone(apperrors.ErrUnauthorized, "invalid email or password")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, s.session(user), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "account no longer exists")
	}

	// Rotate: the old token is consumed by the new pair.
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, apperrors.ErrStore.Message)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) Session(ctx context.Context, email string) (*SessionResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "account not found")
	}
	return s.session(user), nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": policy.Normalize(user.Email),
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtCfg.Expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, apperrors.ErrInternal.Message)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, apperrors.ErrInternal.Message)
	}
	if err := s.repo.StoreRefreshToken(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(s.jwtCfg.RefreshExpiration),
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, apperrors.ErrStore.Message)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refresh}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

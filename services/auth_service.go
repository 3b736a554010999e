package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"proudshop/auth"
	"proudshop/models"
	"proudshop/store"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService owns the admin session lifecycle: credentials check, access
// token issuance and refresh token rotation.
type AuthService struct {
	admins  store.AdminStore
	refresh store.RefreshTokenStore
	tokens  *auth.Manager
}

func NewAuthService(admins store.AdminStore, refresh store.RefreshTokenStore, tokens *auth.Manager) *AuthService {
	return &AuthService{admins: admins, refresh: refresh, tokens: tokens}
}

func (s *AuthService) issueTokens(ctx context.Context, adminID int) (*TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(adminID)
	if err != nil {
		return nil, err
	}
	raw, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Create(ctx, &models.RefreshToken{
		AdminID:   adminID,
		TokenHash: auth.HashToken(raw),
		ExpiresAt: s.tokens.RefreshExpiry(),
	}); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw, TokenType: "bearer"}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, admin.ID)
}

// Register creates a new admin account and logs it in. Registering an
// existing email with a matching password is treated as an idempotent
// register and issues fresh tokens.
func (s *AuthService) Register(ctx context.Context, email string, name *string, password string) (*TokenPair, error) {
	existing, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		if auth.CheckPassword(existing.PasswordHash, password) {
			return s.issueTokens(ctx, existing.ID)
		}
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Email: email, Name: name, PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, admin.ID)
}

// Refresh rotates the refresh token in place and issues a new access token.
// The presented raw token is invalid afterwards.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	stored, err := s.refresh.GetByHash(ctx, auth.HashToken(rawToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	access, err := s.tokens.CreateAccessToken(stored.AdminID)
	if err != nil {
		return nil, err
	}
	raw, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Rotate(ctx, stored.ID, auth.HashToken(raw), s.tokens.RefreshExpiry()); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw, TokenType: "bearer"}, nil
}

// Logout revokes a refresh token; the second revocation of the same token
// reports false.
func (s *AuthService) Logout(ctx context.Context, rawToken string) (bool, error) {
	return s.refresh.DeleteByHash(ctx, auth.HashToken(rawToken))
}

// UpdateProfile changes the logged-in admin's name and/or email. An email
// already owned by another account is rejected; an empty name clears it.
func (s *AuthService) UpdateProfile(ctx context.Context, admin models.Admin, name, email *string) (*models.Admin, error) {
	if email != nil && *email != "" && *email != admin.Email {
		if _, err := s.admins.GetByEmail(ctx, *email); err == nil {
			return nil, ErrProfileEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		admin.Email = *email
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			admin.Name = nil
		} else {
			admin.Name = &trimmed
		}
	}
	if err := s.admins.Update(ctx, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ChangePassword verifies the current password and swaps in the new one.
// The new password must be at least 6 characters and differ from the old.
func (s *AuthService) ChangePassword(ctx context.Context, admin models.Admin, current, next string) error {
	if !auth.CheckPassword(admin.PasswordHash, current) {
		return ErrWrongPassword
	}
	if len(next) < 6 {
		return ErrPasswordTooShort
	}
	if auth.CheckPassword(admin.PasswordHash, next) {
		return ErrPasswordSame
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	return s.admins.Update(ctx, &admin)
}

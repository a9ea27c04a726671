package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/validation"
)

// AuthRepository describes what AuthService needs from the storage layer.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User, displayName string) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreditReferralBonus(ctx context.Context, referrerID uuid.UUID, points int64) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
}

// AuthService covers registration, login and token refresh. Registration
// with a referral code credits the referrer's bonus points, which feed
// the ledger as an additive credit.
type AuthService struct {
	repo          AuthRepository
	tokenManager  *TokenManager
	referralBonus int64
}

// RegisterInput carries signup data.
type RegisterInput struct {
	Email        string
	Password     string
	Username     string
	DisplayName  string
	ReferralCode string
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of registration or login.
type AuthResult struct {
	User      *models.User
	Profile   *models.Profile
	TokenPair *TokenPair
}

// NewAuthService creates the auth service.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager, referralBonus int64) *AuthService {
	return &AuthService{
		repo:          repo,
		tokenManager:  tokenManager,
		referralBonus: referralBonus,
	}
}

// Register creates a new player account and credits the referrer if a
// valid referral code was supplied.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if len(in.Password) < validation.MinPasswordLength {
		return nil, fmt.Errorf("auth service: password must be at least %d characters", validation.MinPasswordLength)
	}

	username := in.Username
	if username == "" {
		username = deriveUsername(in.Email)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	// A bad referral code is not fatal; the signup proceeds without it.
	var referrer *models.User
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		found, err := s.repo.GetByReferralCode(ctx, code)
		switch {
		case err == nil:
			referrer = found
		case errors.Is(err, repository.ErrUserNotFound):
			logger.Module("auth").WithField("code", code).Warn("unknown referral code at signup")
		default:
			return nil, err
		}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     username,
		PasswordHash: string(passHash),
		Role:         models.RolePlayer,
		ReferralCode: newReferralCode(),
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	displayName := in.DisplayName
	if displayName == "" {
		displayName = username
	}

	if err := s.repo.Create(ctx, user, displayName); err != nil {
		return nil, err
	}

	if referrer != nil {
		if err := s.repo.CreditReferralBonus(ctx, referrer.ID, s.referralBonus); err != nil {
			// The account exists; a failed credit must not fail the signup.
			logger.Module("auth").WithError(err).WithField("referrer_id", referrer.ID).
				Error("failed to credit referral bonus")
		}
	}

	return s.issueTokens(ctx, user, meta)
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		logger.Module("auth").WithError(err).Warn("failed to update last login timestamp")
	}

	return s.issueTokens(ctx, user, meta)
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta map[string]string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.repo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || session.UserID != userID {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Rotate: the old session dies with the old token.
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, meta)
}

// Logout drops the session behind a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, meta map[string]string) (*AuthResult, error) {
	pair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if ua := meta["user_agent"]; ua != "" {
		session.UserAgent = &ua
	}
	if ip := meta["ip"]; ip != "" {
		session.IPAddress = &ip
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil {
		logger.Module("auth").WithError(err).Warn("failed to load profile after auth")
		profile = &models.Profile{UserID: user.ID, DisplayName: user.Username}
	}

	return &AuthResult{User: user, Profile: profile, TokenPair: pair}, nil
}

// deriveUsername builds a fallback username from the email local part.
func deriveUsername(email string) string {
	local := strings.SplitN(strings.ToLower(strings.TrimSpace(email)), "@", 2)[0]
	if len(local) < validation.MinUsernameLength {
		local = local + "-player"
	}
	if len(local) > validation.MaxUsernameLength {
		local = local[:validation.MaxUsernameLength]
	}
	return local
}

// newReferralCode generates a short random code users share for bonuses.
func newReferralCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()[:8]
	}
	return hex.EncodeToString(buf)
}

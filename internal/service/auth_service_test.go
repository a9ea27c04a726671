package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

// mockAuthRepository is an in-memory AuthRepository for tests.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	usersByCode  map[string]*models.User
	profiles     map[uuid.UUID]*models.Profile
	sessions     map[string]*models.Session

	bonusCredits map[uuid.UUID]int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		usersByCode:  make(map[string]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		sessions:     make(map[string]*models.Session),
		bonusCredits: make(map[uuid.UUID]int64),
	}
}

func (m *mockAuthRepository) addUser(user *models.User) {
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	if user.ReferralCode != "" {
		m.usersByCode[user.ReferralCode] = user
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User, displayName string) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.IsActive = true
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.addUser(user)
	m.profiles[user.ID] = &models.Profile{UserID: user.ID, DisplayName: displayName}
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	if user, ok := m.usersByCode[code]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreditReferralBonus(ctx context.Context, referrerID uuid.UUID, points int64) error {
	m.bonusCredits[referrerID] += points
	if profile, ok := m.profiles[referrerID]; ok {
		profile.ReferralBonusPoints += points
		profile.ReferralCount++
	}
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if session, ok := m.sessions[refreshToken]; ok {
		return session, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func newAuthService(repo *mockAuthRepository) *AuthService {
	tokens := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tokens, 100)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newAuthService(repo)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:    "player@example.com",
		Password: "password123",
	}, map[string]string{"ip": "127.0.0.1"})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Equal(t, models.RolePlayer, res.User.Role)
	assert.NotEmpty(t, res.User.ReferralCode)
	assert.Len(t, repo.sessions, 1)

	loginRes, err := svc.Login(ctx, LoginInput{
		Email:    "player@example.com",
		Password: "password123",
	}, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, loginRes.TokenPair.AccessToken)
}

func TestAuthService_Register_CreditsReferrer(t *testing.T) {
	repo := newMockAuthRepository()
	referrer := &models.User{ID: uuid.New(), Email: "ref@example.com", ReferralCode: "abcd1234", IsActive: true}
	repo.addUser(referrer)
	repo.profiles[referrer.ID] = &models.Profile{UserID: referrer.ID}

	svc := newAuthService(repo)
	res, err := svc.Register(context.Background(), RegisterInput{
		Email:        "newbie@example.com",
		Password:     "password123",
		ReferralCode: "abcd1234",
	}, nil)

	assert.NoError(t, err)
	assert.NotNil(t, res.User.ReferredBy)
	assert.Equal(t, referrer.ID, *res.User.ReferredBy)
	assert.Equal(t, int64(100), repo.bonusCredits[referrer.ID])
	assert.Equal(t, int64(100), repo.profiles[referrer.ID].ReferralBonusPoints)
}

func TestAuthService_Register_UnknownReferralCode(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newAuthService(repo)

	// Unknown codes are dropped, the signup still succeeds.
	res, err := svc.Register(context.Background(), RegisterInput{
		Email:        "newbie@example.com",
		Password:     "password123",
		ReferralCode: "nope0000",
	}, nil)

	assert.NoError(t, err)
	assert.Nil(t, res.User.ReferredBy)
	assert.Empty(t, repo.bonusCredits)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newMockAuthRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &models.User{ID: uuid.New(), Email: "p@example.com", PasswordHash: string(hash), IsActive: true}
	repo.addUser(user)

	svc := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginInput{Email: "p@example.com", Password: "wrong"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "correct-horse"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newMockAuthRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: uuid.New(), Email: "off@example.com", PasswordHash: string(hash), IsActive: false}
	repo.addUser(user)

	svc := newAuthService(repo)
	_, err := svc.Login(context.Background(), LoginInput{Email: "off@example.com", Password: "password123"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_Rotates(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newAuthService(repo)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:    "player@example.com",
		Password: "password123",
	}, nil)
	assert.NoError(t, err)

	oldToken := res.TokenPair.RefreshToken
	refreshed, err := svc.Refresh(ctx, oldToken, nil)
	assert.NoError(t, err)
	assert.NotEqual(t, oldToken, refreshed.TokenPair.RefreshToken)

	// The rotated-out token is dead.
	_, err = svc.Refresh(ctx, oldToken, nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

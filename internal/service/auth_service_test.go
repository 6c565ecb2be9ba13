package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"rentflow-backend/internal/config"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/repository"
	"rentflow-backend/internal/server/authctx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, p repository.CreateUserParams) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = map[uuid.UUID]domain.User{}
	}
	for _, u := range f.users {
		if u.Email == p.Email {
			return nil, repository.ErrConflict
		}
	}
	u := domain.User{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        p.Email,
		Role:         p.Role,
		IsGoogle:     p.IsGoogle,
		PasswordHash: p.PasswordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func newAuth() AuthService {
	return AuthService{
		Config: config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Users: &fakeUsers{},
	}
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newAuth()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:     "Owner",
		Email:    " Owner@Example.com ",
		Password: "correct-horse",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "correct-horse", *user.PasswordHash)

	res, err := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := ParseToken("test-secret", res.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	_, err = svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc := newAuth()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Owner", Email: "\tBoss@Example.COM  ", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Again", Email: "boss@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = svc.Login(ctx, LoginInput{Email: " BOSS@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestCreateUserDefaultsToViewer(t *testing.T) {
	svc := newAuth()

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "Clerk", Email: "clerk@example.com", Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, user.Role)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{Name: "X", Email: "x@example.com", Password: "short"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestRefreshIssuesNewTokens(t *testing.T) {
	svc := newAuth()
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "M", Email: "m@example.com", Password: "password1", Role: domain.RoleManager})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginInput{Email: "m@example.com", Password: "password1"})
	require.NoError(t, err)

	res, err := svc.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, res.User.ID)

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        uuid.NewString(),
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseToken("test-secret", raw, "access")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        uuid.NewString(),
		"token_type": "access",
		"exp":        time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseToken("test-secret", expired, "access")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("test-secret", "garbage", "access")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMeUsesRequestUser(t *testing.T) {
	svc := newAuth()
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "V", Email: "v@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Me(ctx)
	assert.ErrorIs(t, err, ErrInvalidToken)

	got, err := svc.Me(authctx.WithCurrentUser(ctx, authctx.CurrentUser{ID: user.ID, Email: user.Email, Role: user.Role}))
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestGoogleLoginRequiresVerifier(t *testing.T) {
	_, err := newAuth().LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "x"})
	assert.EqualError(t, err, "google sign-in is not configured")
}

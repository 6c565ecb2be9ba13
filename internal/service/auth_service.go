package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentflow-backend/internal/config"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/repository"
	"rentflow-backend/internal/server/authctx"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is the subset of repository.UserRepository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, p repository.CreateUserParams) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type AuthService struct {
	Config       config.Config
	Users        UserStore
	Logger       *slog.Logger
	FirebaseAuth *fbauth.Client
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
	ExpiresAt    time.Time
}

type CreateUserInput struct {
	Name     string          `validate:"required"`
	Email    string          `validate:"required,email"`
	Password string          `validate:"required,min=8"`
	Role     domain.UserRole `validate:"oneof=admin manager viewer"`
}

type LoginInput struct {
	Email    string
	Password string
}

type GoogleLoginInput struct {
	IDToken string
	Name    string
}

type RefreshInput struct {
	RefreshToken string
}

// CreateUser adds a password account. It is used by the operator CLI.
func (s AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleViewer
	}
	in.Email = normalizeEmail(in.Email)
	if err := check(in, nil); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Create(ctx, repository.CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: ptr(string(hash)),
		IsGoogle:     false,
	})
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// LoginWithGoogle verifies the ID token with Firebase Auth when configured,
// otherwise against GOOGLE_CLIENT_ID. First-time users become viewers.
func (s AuthService) LoginWithGoogle(ctx context.Context, in GoogleLoginInput) (*AuthResult, error) {
	var email, name string
	switch {
	case s.FirebaseAuth != nil:
		tok, err := s.FirebaseAuth.VerifyIDToken(ctx, in.IDToken)
		if err != nil {
			return nil, fmt.Errorf("%w: firebase: %v", ErrInvalidToken, err)
		}
		email, _ = tok.Claims["email"].(string)
		name, _ = tok.Claims["name"].(string)
	case s.Config.GoogleClientID != "":
		payload, err := idtoken.Validate(ctx, in.IDToken, s.Config.GoogleClientID)
		if err != nil {
			return nil, fmt.Errorf("%w: google: %v", ErrInvalidToken, err)
		}
		email, _ = payload.Claims["email"].(string)
		name, _ = payload.Claims["name"].(string)
	default:
		return nil, errors.New("google sign-in is not configured")
	}
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	if name == "" {
		name = in.Name
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.Users.Create(ctx, repository.CreateUserParams{
			Name:     name,
			Email:    strings.ToLower(email),
			Role:     domain.RoleViewer,
			IsGoogle: true,
		})
	}
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	claims, err := ParseToken(s.Config.JWTSecret, in.RefreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// Me returns the user behind the request context.
func (s AuthService) Me(ctx context.Context) (*domain.User, error) {
	cu := authctx.FromContext(ctx)
	if cu == nil {
		return nil, ErrInvalidToken
	}
	user, err := s.Users.GetByID(ctx, cu.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}

// ParseToken validates an HS256 token and checks its token_type claim.
func ParseToken(secret, raw, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID.String(),
		"email":      user.Email,
		"role":       string(user.Role),
		"token_type": "access",
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID.String(),
		"token_type": "refresh",
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    accessExp,
	}, nil
}

func ptr[T any](v T) *T { return &v }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

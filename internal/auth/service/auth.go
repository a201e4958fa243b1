package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userserrors "staywise/internal/users/errors"
	"staywise/internal/users/repository"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
)

// AuthService is the authentication gate: it creates accounts, exchanges
// credentials for bearer tokens, and resolves tokens back to identities.
type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error)
	Resolve(ctx context.Context, token string) (*model.Identity, *model.User, error)
}

type authService struct {
	users     repository.UserRepository
	validator *AuthValidator
	cfg       *config.Config
}

func NewAuthService(users repository.UserRepository, validator *AuthValidator, cfg *config.Config) AuthService {
	return &authService{
		users:     users,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *authService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, string, error) {
	req.FirstName = sanitizer.TrimAndNormalize(req.FirstName)
	req.LastName = sanitizer.TrimAndNormalize(req.LastName)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateSignup(req); err != nil {
		s.cfg.Log.Warn("Signup validation failed", "error", err)
		return nil, "", apperrors.Validation("Invalid signup input", map[string]any{"error": err.Error()})
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", apperrors.Conflict("User already exists with this email")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		return nil, "", apperrors.Internal("Failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, "", apperrors.Conflict("User already exists with this email")
		}
		return nil, "", apperrors.Internal("Failed to create user", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User signed up", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		s.cfg.Log.Warn("Login validation failed", "error", err)
		return nil, "", apperrors.Validation("Invalid login input", map[string]any{"error": err.Error()})
	}

	// Credential failures are indistinct so callers cannot probe which
	// emails exist.
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, "", apperrors.InvalidInput("Invalid email or password")
		}
		return nil, "", apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.InvalidInput("Invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*model.Identity, *model.User, error) {
	if token == "" {
		return nil, nil, apperrors.Unauthorized("Access denied. No token provided.")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil, apperrors.Unauthorized("Invalid or expired token")
	}

	// The role is read from the store on every request, so demotions and
	// promotions take effect without reissuing the token.
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, nil, apperrors.Unauthorized("User not found")
		}
		return nil, nil, apperrors.Internal("Failed to resolve user", err)
	}

	return &model.Identity{UserID: user.ID, Role: user.Role}, user, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

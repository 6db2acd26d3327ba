package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the work factor for stored password hashes.
	BcryptCost = 12
	// MinPasswordLength applies to registration and password resets.
	MinPasswordLength = 6
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles business logic for authentication and accounts.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// TokenTTL is how long an issued session token stays valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Secret is the HS256 signing key, shared with the session middleware.
func (s *AuthService) Secret() []byte {
	return s.jwtSecret
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// Register creates a user with role "user". It does not log the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, badRequest("name, email and password are required")
	}
	if !validEmail(email) {
		return nil, badRequest("invalid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, badRequest("password must be at least %d characters", MinPasswordLength)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("look up email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
		}
		return nil, internal("create user", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID.Hex())
	return user, nil
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		telemetry.LoginAttempts.WithLabelValues("bad_request").Inc()
		return "", nil, badRequest("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			telemetry.LoginAttempts.WithLabelValues("invalid").Inc()
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return "", nil, internal("look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		telemetry.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, internal("sign token", err)
	}
	telemetry.LoginAttempts.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.String("user.id", user.ID.Hex()))
	return token, user, nil
}

// IssueToken signs an HS256 token carrying the user's id, email and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken verifies a session token and returns the principal it names.
func (s *AuthService) ParseToken(tokenString string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing session token", ErrUnauthorized)
	}
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session token", ErrUnauthorized)
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims converts verified claims into a Principal.
func PrincipalFromClaims(claims *SessionClaims) (*models.Principal, error) {
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session subject", ErrUnauthorized)
	}
	return &models.Principal{UserID: id, Email: claims.Email, Role: claims.Role}, nil
}

// ResolveSession returns the public profile of the principal's user. A token
// whose user no longer exists is treated as no session.
func (s *AuthService) ResolveSession(ctx context.Context, principal *models.Principal) (*models.PublicUser, error) {
	ctx, span := tracer.Start(ctx, "AuthService.ResolveSession")
	defer span.End()

	if principal == nil {
		return nil, fmt.Errorf("%w: no session", ErrUnauthorized)
	}
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: session user no longer exists", ErrUnauthorized)
		}
		return nil, internal("load session user", err)
	}
	public := user.Public()
	return &public, nil
}

// UpdateProfile changes the email and/or profile picture. Submitting the
// current values again succeeds.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, email, profilePicture *string) (*models.PublicUser, error) {
	ctx, span := tracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	if email == nil && profilePicture == nil {
		return nil, badRequest("nothing to update: provide email or profilePicture")
	}

	update := models.UserUpdate{ProfilePicture: profilePicture}
	if email != nil {
		normalized := normalizeEmail(*email)
		if !validEmail(normalized) {
			return nil, badRequest("invalid email address")
		}
		existing, err := s.userRepo.GetByEmail(ctx, normalized)
		switch {
		case err == nil && existing.ID != userID:
			return nil, fmt.Errorf("%w: email %s already in use", ErrConflict, normalized)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, internal("look up email", err)
		}
		update.Email = &normalized
	}

	if err := s.userRepo.Update(ctx, userID, update); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("user %s", userID.Hex())
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return nil, internal("update user", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal("reload user", err)
	}
	public := user.Public()
	return &public, nil
}

// ResetPassword stores a new hash for the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, userID primitive.ObjectID, newPassword string) error {
	ctx, span := tracer.Start(ctx, "AuthService.ResetPassword")
	defer span.End()

	if strings.TrimSpace(newPassword) == "" {
		return badRequest("new password is required")
	}
	if len(newPassword) < MinPasswordLength {
		return badRequest("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return internal("hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("user %s", userID.Hex())
		}
		return internal("update password", err)
	}
	return nil
}

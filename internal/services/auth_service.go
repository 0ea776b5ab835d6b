package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/auth/service"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If a user with the same email already exists, a Conflict error is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, a NotFound error is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, a NotFound error is returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// authService handles registration, login and token refresh
type authService struct {
	userRepo       UserRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates a new user account. Admin accounts are seeded, not
// registered, so the role is restricted to instructor and student.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	normalizedName := strings.TrimSpace(req.Name)

	var fields []apperr.FieldError
	if !emailRegex.MatchString(normalizedEmail) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "invalid email format"})
	}
	if normalizedName == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name cannot be empty"})
	}
	if len(req.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password must be at least 8 characters long"})
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleInstructor && role != models.RoleStudent {
		fields = append(fields, apperr.FieldError{Field: "role", Message: "role must be instructor or student"})
	}

	if len(fields) > 0 {
		return nil, apperr.Validation("INVALID_REGISTRATION", "invalid registration data", fields...)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		Name:         normalizedName,
		Role:         role,
	}

	// Uniqueness is enforced by the database; a duplicate email surfaces as a
	// Conflict from the repository, so two concurrent registrations cannot race.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// An unknown email and a wrong password are indistinguishable to the caller
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, err := s.tokenGenerator.ValidateRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
	}

	// The role is re-read from the database so a role change takes effect on
	// the next refresh rather than living in old tokens forever.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *models.User) (*models.TokenPair, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Int("userId", user.ID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

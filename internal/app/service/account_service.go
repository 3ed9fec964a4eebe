package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"mini_one/internal/common"
	"mini_one/internal/common/security"
	"mini_one/internal/domain/model"
	"mini_one/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgUserExists         = "User with that email or username already exists"
	msgInvalidCredentials = "Invalid credentials"
)

// AccountService handles registration, login and "who am I" lookups.
type AccountService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenCodec
	hasher   *security.Hasher
	log      logrus.FieldLogger
}

func NewAccountService(userRepo repository.UserRepository, tokens *security.TokenCodec, hasher *security.Hasher, log logrus.FieldLogger) *AccountService {
	return &AccountService{userRepo: userRepo, tokens: tokens, hasher: hasher, log: log}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// AuthResult carries the issued token to the transport layer, which delivers
// it out of band; only User is ever serialized.
type AuthResult struct {
	User  *model.PublicUser
	Token string
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	username, email, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	if taken, err := s.exists(ctx, email, username); err != nil {
		return nil, err
	} else if taken {
		return nil, common.NewError(common.ErrConflict, msgUserExists)
	}

	hashedPassword, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewError(common.ErrConflict, msgUserExists)
		}
		return nil, common.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return s.authenticate(user)
}

func (s *AccountService) exists(ctx context.Context, email, username string) (bool, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return false, common.Errorf("failed to look up email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return false, common.Errorf("failed to look up username: %w", err)
	}
	return false, nil
}

func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if req.EmailOrUsername == "" || req.Password == "" {
		return nil, invalid("Email/username and password are required")
	}
	identifier := strings.TrimSpace(req.EmailOrUsername)
	if identifier == "" {
		return nil, invalid("Email/username cannot be empty")
	}
	if utf8.RuneCountInString(req.Password) < PasswordMinLen {
		return nil, invalid("Password must be at least 6 characters")
	}

	// No stored email or username contains NUL.
	if hasNUL(identifier) {
		s.hasher.BurnCompare(req.Password)
		return nil, common.NewError(common.ErrInvalidCredentials, msgInvalidCredentials)
	}

	// Try finding by email first, then by username
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.BurnCompare(req.Password)
			return nil, common.NewError(common.ErrInvalidCredentials, msgInvalidCredentials)
		}
		return nil, common.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.NewError(common.ErrInvalidCredentials, msgInvalidCredentials)
	}
	return s.authenticate(user)
}

func (s *AccountService) authenticate(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// CurrentUser answers "who holds this token" on a best-effort basis: any
// failure yields nil, never an error.
func (s *AccountService) CurrentUser(ctx context.Context, token string) *model.PublicUser {
	if token == "" {
		return nil
	}
	identity, err := s.tokens.Verify(token)
	if err != nil {
		s.log.WithError(err).WithField("expired", errors.Is(err, common.ErrTokenExpired)).Debug("current user: token rejected")
		return nil
	}
	user, err := s.LoadUser(ctx, identity.UserID)
	if err != nil {
		s.log.WithError(err).Debug("current user: identity not loaded")
		return nil
	}
	return user
}

// LoadUser resolves a token's user id to a public user. Malformed ids and
// unknown users both report common.ErrUnauthorized.
func (s *AccountService) LoadUser(ctx context.Context, userID string) (*model.PublicUser, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.Errorf("malformed user id in token: %w", common.ErrUnauthorized)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("token user no longer exists: %w", common.ErrUnauthorized)
		}
		return nil, common.Errorf("failed to load user: %w", err)
	}
	return user.Public(), nil
}

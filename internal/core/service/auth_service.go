package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// AuthService implements registration, login and self-service account
// operations.
type AuthService struct {
	users    ports.UserRepository
	colleges ports.CollegeRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(store ports.Store, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    store.Users,
		colleges: store.Colleges,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if !s.tokens.Ready() {
		return nil, domain.ErrSigningKeyMissing
	}

	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindOne(ctx, ports.UserFilter{Email: email}); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if in.StudentID != "" {
		if _, err := s.users.FindOne(ctx, ports.UserFilter{StudentID: in.StudentID}); err == nil {
			return nil, domain.ErrStudentIDTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}
	if in.CollegeID != "" {
		if _, err := s.colleges.FindByID(ctx, in.CollegeID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           newID(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserActive,
		StudentID:    in.StudentID,
		PhoneNumber:  in.PhoneNumber,
		CollegeID:    in.CollegeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	view, err := userView(ctx, s.colleges, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, User: view}, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password both yield domain.ErrInvalidCredentials. Account status is checked
// before the password, so an inactive account reports ErrAccountInactive.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if !s.tokens.Ready() {
		s.logger.Error().Msg("login refused: signing secret not configured")
		return nil, domain.ErrSigningKeyMissing
	}

	user, err := s.users.FindOne(ctx, ports.UserFilter{Email: email})
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Debug().Str("step", "lookup").Msg("login: no user for email")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		s.logger.Debug().Str("step", "status").Str("user_id", user.ID).Str("status", string(user.Status)).Msg("login: account not active")
		return nil, domain.ErrAccountInactive
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug().Str("step", "verify").Str("user_id", user.ID).Msg("login: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	updated, err := s.users.Update(ctx, user.ID, domain.Patch{domain.UserFieldLastLogin: now})
	if err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	token, err := s.tokens.Issue(updated.ID)
	if err != nil {
		return nil, err
	}
	view, err := userView(ctx, s.colleges, updated)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("step", "issued").Str("user_id", updated.ID).Msg("login: token issued")
	return &ports.AuthResult{Token: token, User: view}, nil
}

func (s *AuthService) Me(ctx context.Context, actor *domain.User) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return userView(ctx, s.colleges, user)
}

// UpdateProfile applies the self-service field set; other keys are dropped.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, patch domain.Patch) (*ports.UserView, error) {
	allowed := patch.Restrict(domain.ProfileFields())
	if len(allowed) == 0 {
		return s.Me(ctx, actor)
	}
	user, err := s.users.Update(ctx, actor.ID, allowed)
	if err != nil {
		return nil, err
	}
	return userView(ctx, s.colleges, user)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrWrongCurrentPassword
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, user.ID, domain.Patch{domain.UserFieldPasswordHash: hash}); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

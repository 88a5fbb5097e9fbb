package service

import (
	"context"
	"strings"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/auth"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users     repository.UserRepository
	validator *validation.Validator
	tokens    *auth.TokenManager
	cfg       config.AuthConfig
	log       zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, validator *validation.Validator, tokens *auth.TokenManager, cfg config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		users:     users,
		validator: validator,
		tokens:    tokens,
		cfg:       cfg,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// Login checks credentials and issues a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	if err := validation.Err(s.validator.ValidateLogin(req)); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return "", err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return "", apperr.Unauthenticated("invalid email or password")
	}

	token, err := s.tokens.Sign(policy.Actor{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("User logged in")
	return token, nil
}

// Register creates a WRITER account
func (s *authService) Register(ctx context.Context, actor policy.Actor, req *models.RegisterRequest) (*models.UserSummary, error) {
	if err := policy.Authorize(policy.ManageUsers, actor); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Err(s.validator.ValidateRegister(req)); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleWriter,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can still hit the unique index
		if apperr.Is(storeErr(err, "user"), apperr.KindConflict) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Int64("created_by", actor.UserID).Msg("User registered")

	summary := user.Summary()
	summary.Role = ""
	return &summary, nil
}

// Me returns the profile of the authenticated user
func (s *authService) Me(ctx context.Context, actor policy.Actor) (*models.UserSummary, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	summary := user.Summary()
	return &summary, nil
}

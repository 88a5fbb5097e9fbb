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

// userService is the concrete implementation of UserService
type userService struct {
	users     repository.UserRepository
	validator *validation.Validator
	cfg       config.AuthConfig
	log       zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(users repository.UserRepository, validator *validation.Validator, cfg config.AuthConfig, log zerolog.Logger) *userService {
	return &userService{
		users:     users,
		validator: validator,
		cfg:       cfg,
		log:       log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context, actor policy.Actor) ([]models.UserSummary, error) {
	if err := policy.Authorize(policy.ManageUsers, actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, len(users))
	for i, u := range users {
		out[i] = u.Summary()
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, actor policy.Actor, id int64) (*models.UserSummary, error) {
	if err := policy.Authorize(policy.ManageUsers, actor); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// Update changes the supplied fields. A new password is hashed before storage.
func (s *userService) Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateUserRequest) (*models.UserSummary, error) {
	if err := policy.Authorize(policy.ManageUsers, actor); err != nil {
		return nil, err
	}
	if err := validation.Err(s.validator.ValidateUserUpdate(req)); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}

	s.log.Info().Int64("user_id", user.ID).Int64("updated_by", actor.UserID).Msg("User updated")
	summary := user.Summary()
	return &summary, nil
}

// Delete removes a user. Users who still author articles cannot be deleted.
func (s *userService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.Authorize(policy.ManageUsers, actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if apperr.Is(storeErr(err, "user"), apperr.KindConflict) {
			return apperr.Conflict("user still authors articles")
		}
		return storeErr(err, "user")
	}
	s.log.Info().Int64("user_id", id).Int64("deleted_by", actor.UserID).Msg("User deleted")
	return nil
}

func (s *userService) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

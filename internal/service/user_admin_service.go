package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/pkg/authadmin"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
)

// Results of DeleteByEmail.
const (
	UserDeleted  = "deleted"
	UserNotFound = "not_found"
)

// UserDirectory is the hosted auth provider's admin API.
type UserDirectory interface {
	ListUsers(ctx context.Context, page int) ([]authadmin.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// DeleteUserRequest is the payload of the delete-user endpoint.
type DeleteUserRequest struct {
	Email string `json:"email"`
}

// UserAdminService removes auth accounts by email.
type UserAdminService struct {
	directory UserDirectory
	logger    *zap.Logger
}

// NewUserAdminService constructs the service. A nil directory means the admin API is not
// configured and every call fails with ErrUnavailable.
func NewUserAdminService(directory UserDirectory, logger *zap.Logger) *UserAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserAdminService{directory: directory, logger: logger}
}

// DeleteByEmail pages through the user list until it finds email (case-insensitive) or runs out
// of pages, then deletes the match.
func (s *UserAdminService) DeleteByEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "el correo es obligatorio")
	}
	if s.directory == nil {
		return "", appErrors.Clone(appErrors.ErrUnavailable, "la administración de usuarios no está configurada")
	}

	for page := 1; ; page++ {
		users, err := s.directory.ListUsers(ctx, page)
		if err != nil {
			s.logger.Error("list auth users failed", zap.Int("page", page), zap.Error(err))
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("no se pudo listar los usuarios: %v", err))
		}
		for _, u := range users {
			if !strings.EqualFold(u.Email, email) {
				continue
			}
			if err := s.directory.DeleteUser(ctx, u.ID); err != nil {
				s.logger.Error("delete auth user failed", zap.String("user_id", u.ID), zap.Error(err))
				return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("no se pudo eliminar el usuario: %v", err))
			}
			s.logger.Info("auth user deleted", zap.String("user_id", u.ID))
			return UserDeleted, nil
		}
		if len(users) < authadmin.PageSize {
			return UserNotFound, nil
		}
	}
}

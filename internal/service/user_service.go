package service

import (
	"context"
	"errors"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"
)

type UserService interface {
	GetRole(ctx context.Context, userID string) (model.UserRole, error)
	// SetRole stores the role once. Admins are assigned out of band.
	SetRole(ctx context.Context, userID string, role model.UserRole) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetRole(ctx context.Context, userID string) (model.UserRole, error) {
	role, err := s.repo.GetRole(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrRoleNotSet
	}
	return role, err
}

func (s *userService) SetRole(ctx context.Context, userID string, role model.UserRole) error {
	if !role.Valid() || role == model.RoleAdmin {
		return ErrInvalidRole
	}
	err := s.repo.SetRole(ctx, userID, role)
	var pe *repository.PersistenceError
	if errors.As(err, &pe) && pe.Code == "23505" {
		return ErrRoleAlreadySet
	}
	return err
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRoles(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.GetRole(ctx, "u1")
	assert.ErrorIs(t, err, ErrRoleNotSet)

	assert.ErrorIs(t, svc.SetRole(ctx, "u1", model.RoleAdmin), ErrInvalidRole)
	assert.ErrorIs(t, svc.SetRole(ctx, "u1", model.UserRole("moderator")), ErrInvalidRole)
	assert.ErrorIs(t, svc.SetRole(ctx, "u1", ""), ErrInvalidRole)

	require.NoError(t, svc.SetRole(ctx, "u1", model.RoleEducator))
	role, err := svc.GetRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleEducator, role)

	repo.setErr = &repository.PersistenceError{Op: "set role", Err: errors.New("duplicate key"), Code: "23505"}
	assert.ErrorIs(t, svc.SetRole(ctx, "u1", model.RoleStudent), ErrRoleAlreadySet)
}

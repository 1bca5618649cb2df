package repository

import (
	"context"
	"fmt"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	// GetRole returns ErrNotFound when the user has not picked a role yet.
	GetRole(ctx context.Context, userID string) (model.UserRole, error)
	SetRole(ctx context.Context, userID string, role model.UserRole) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) GetRole(ctx context.Context, userID string) (model.UserRole, error) {
	if !validID(userID) {
		return "", ErrNotFound
	}
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role::text FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		return "", readError(fmt.Sprintf("get role of %s", userID), err)
	}
	return model.UserRole(role), nil
}

func (r *userRepo) SetRole(ctx context.Context, userID string, role model.UserRole) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userID, string(role))
	return writeError(fmt.Sprintf("set role of %s", userID), err)
}

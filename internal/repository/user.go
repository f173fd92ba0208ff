package repository

import (
	"context"
	"fmt"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	List(ctx context.Context, skip, limit int) ([]dao.User, int64, error)
	SetActive(ctx context.Context, id uint, active bool) (dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: true,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]domain.User, int64, error) {
	found, total, err := r.dao.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, r.daoToDomain(u))
	}

	return users, total, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id uint, active bool) (domain.User, error) {
	updated, err := r.dao.SetActive(ctx, id, active)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

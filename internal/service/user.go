package service

import (
	"context"
	"fmt"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, int64, error)
	SetActive(ctx context.Context, id uint, active bool) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, skip, limit int) ([]domain.User, int64, error) {
	if err := requireActive(actor); err != nil {
		return nil, 0, err
	}
	if !domain.CanModerate(actor) {
		return nil, 0, ErrPermissionDenied
	}

	skip, limit = NormalizePage(skip, limit)

	users, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, total, nil
}

func (s *UserService) SetUserActive(ctx context.Context, actor domain.Actor, id uint, active bool) (domain.User, error) {
	if err := requireActive(actor); err != nil {
		return domain.User{}, err
	}
	if !domain.CanModerate(actor) {
		return domain.User{}, ErrPermissionDenied
	}

	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	return user, nil
}

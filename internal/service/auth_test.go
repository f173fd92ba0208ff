package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository"
	"github.com/sci-insight/sci-api/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]domain.User
	byID    map[uint]domain.User
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]domain.User),
		byID:    make(map[uint]domain.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	r.nextID++
	user.ID = r.nextID
	user.IsActive = true
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) List(_ context.Context, skip, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	for _, u := range r.byID {
		users = append(users, u)
	}
	_ = skip
	_ = limit

	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uint, active bool) (domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	user.IsActive = active
	r.byID[id] = user
	r.byEmail[user.Email] = user

	return user, nil
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "marie@example.com",
		Password: "hunter2hunter2",
		Name:     "Marie",
		Role:     domain.RoleAdmin, // must be ignored
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCreator, created.Role)
	assert.NotEqual(t, "hunter2hunter2", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2hunter2")))

	_, err = svc.Signup(context.Background(), domain.User{
		Email:    "marie@example.com",
		Password: "another1password",
	})
	assert.ErrorIs(t, err, service.ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "marie@example.com",
		Password: "hunter2hunter2",
		Name:     "Marie",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "marie@example.com", "hunter2hunter2")

		require.NoError(t, err)
		assert.Equal(t, "marie@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "marie@example.com", "wrong")

		assert.ErrorIs(t, err, service.ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, err := repo.SetActive(context.Background(), 1, false)
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), "marie@example.com", "hunter2hunter2")

		assert.ErrorIs(t, err, service.ErrAccountInactive)
	})
}

func TestUserService_AdminGates(t *testing.T) {
	repo := newFakeUserRepo()
	userSvc := service.NewUserService(repo)
	authSvc := service.NewAuthService(repo)

	created, err := authSvc.Signup(context.Background(), domain.User{
		Email:    "marie@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = userSvc.ListUsers(context.Background(), owner, 0, 10)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	users, total, err := userSvc.ListUsers(context.Background(), admin, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	_, err = userSvc.SetUserActive(context.Background(), owner, created.ID, false)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	deactivated, err := userSvc.SetUserActive(context.Background(), admin, created.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	inactiveAdmin := domain.Actor{ID: 99, Role: domain.RoleAdmin, IsActive: false}
	_, _, err = userSvc.ListUsers(context.Background(), inactiveAdmin, 0, 10)
	assert.ErrorIs(t, err, service.ErrAccountInactive)
	_, err = userSvc.SetUserActive(context.Background(), inactiveAdmin, created.ID, true)
	assert.ErrorIs(t, err, service.ErrAccountInactive)
}

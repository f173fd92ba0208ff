package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/response"
	"github.com/sci-insight/sci-api/internal/api/middleware"
	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/service"
)

var (
	errMissingUserID      = errors.New("user id missing from request context")
	errUnknownUser        = errors.New("token subject no longer exists")
	errAccountDeactivated = errors.New("account is deactivated")
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, skip, limit int) ([]domain.User, int64, error)
	SetUserActive(ctx context.Context, actor domain.Actor, id uint, active bool) (domain.User, error)
}

// currentActor resolves the authenticated principal set by the auth
// middleware, loading the user record so role and active flag are current
// rather than whatever the token was minted with.
func currentActor(ctx *gin.Context, uSvc UserService) (domain.Actor, *response.Err) {
	userID, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return domain.Actor{}, response.ErrMissingToken(errMissingUserID)
	}

	id, ok := userID.(uint)
	if !ok || id == 0 {
		return domain.Actor{}, response.ErrInvalidToken(errMissingUserID)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.Actor{}, response.ErrInvalidToken(errUnknownUser)
		}

		return domain.Actor{}, response.ErrInternalServerError(fmt.Errorf("currentActor -> uSvc.GetUser -> %w", err))
	}

	// A valid token does not outlive the account: deactivated users are
	// rejected here, before any handler logic runs.
	if !user.IsActive {
		return domain.Actor{}, response.ErrAccountInactive(errAccountDeactivated)
	}

	return user.AsActor(), nil
}

// optionalActor is currentActor for routes where anonymous access is fine.
func optionalActor(ctx *gin.Context, uSvc UserService) (domain.Actor, *response.Err) {
	if _, exists := ctx.Get(middleware.ContextUserIDKey); !exists {
		return domain.Actor{}, nil
	}

	return currentActor(ctx, uSvc)
}

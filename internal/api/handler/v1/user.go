package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/response"
	"github.com/sci-insight/sci-api/internal/service"
)

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "User ID"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListUsers godoc
// @Summary      List users (admin only)
// @Tags         users
// @Produce      json
// @Param        skip     query      int  false  "rows to skip"
// @Param        limit    query      int  false  "page size"
// @Success      200      {object}   response.ListUsersResponse
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	users, total, err := h.svc.ListUsers(ctx.Request.Context(), actor, skip, limit)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))

			return
		}

		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListUsersResponse{
		Items: users,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// HandleActivateUser godoc
// @Summary      Reactivate a user account (admin only)
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "User ID"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID}/activate [put]
// @Security     BearerAuth
func (h *UserHandler) HandleActivateUser(ctx *gin.Context) {
	h.setUserActive(ctx, true)
}

// HandleDeactivateUser godoc
// @Summary      Deactivate a user account (admin only)
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "User ID"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID}/deactivate [put]
// @Security     BearerAuth
func (h *UserHandler) HandleDeactivateUser(ctx *gin.Context) {
	h.setUserActive(ctx, false)
}

func (h *UserHandler) setUserActive(ctx *gin.Context, active bool) {
	actor, respErr := currentActor(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))

		return
	}

	user, err := h.svc.SetUserActive(ctx.Request.Context(), actor, uint(userID), active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		default:
			err = fmt.Errorf("v1.setUserActive -> h.svc.SetUserActive -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, user)
}

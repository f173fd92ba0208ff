package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/request"
	"github.com/sci-insight/sci-api/internal/api/handler/v1/response"
	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/metrics"
	"github.com/sci-insight/sci-api/internal/service"
)

type CompetitionService interface {
	Create(ctx context.Context, actor domain.Actor, input service.CreateCompetitionInput) (domain.Competition, error)
	Update(ctx context.Context, actor domain.Actor, id string, input service.UpdateCompetitionInput) (domain.Competition, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Get(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error)
	Reject(ctx context.Context, actor domain.Actor, id, reason string) (domain.Competition, error)
	Feature(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error)
	Unfeature(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error)
	SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (domain.Competition, error)
	ListPublic(ctx context.Context, query service.ListCompetitionsQuery) ([]domain.Competition, int64, error)
	ListFeatured(ctx context.Context, query service.ListCompetitionsQuery) ([]domain.Competition, int64, error)
	ListOwn(ctx context.Context, actor domain.Actor, query service.ListCompetitionsQuery) ([]domain.Competition, int64, error)
	ListPending(ctx context.Context, actor domain.Actor, query service.ListCompetitionsQuery) ([]domain.Competition, int64, error)
}

type CompetitionHandler struct {
	svc  CompetitionService
	uSvc UserService
}

func NewCompetitionHandler(svc CompetitionService, uSvc UserService) *CompetitionHandler {
	return &CompetitionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListCompetitions godoc
// @Summary      List approved competitions
// @Description  Public listing. Only approved competitions are ever returned.
// @Tags         competitions
// @Produce      json
// @Param        skip      query     int     false  "rows to skip"
// @Param        limit     query     int     false  "page size (capped at 1000)"
// @Param        format    query     string  false  "ONLINE, OFFLINE or HYBRID"
// @Param        scale     query     string  false  "PROVINCIAL, REGIONAL or INTERNATIONAL"
// @Param        location  query     string  false  "location substring"
// @Param        search    query     string  false  "matched against title and introduction"
// @Param        sort_by   query     string  false  "created_at, registration_deadline or title"
// @Param        order     query     string  false  "asc or desc"
// @Success      200  {object}  response.ListCompetitionsResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions [get]
func (h *CompetitionHandler) HandleListCompetitions(ctx *gin.Context) {
	req, ok := bindListRequest(ctx)
	if !ok {
		return
	}

	query := listQueryFromRequest(req)

	competitions, total, err := h.svc.ListPublic(ctx.Request.Context(), query)
	if err != nil {
		err = fmt.Errorf("v1.HandleListCompetitions -> h.svc.ListPublic -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	renderListing(ctx, competitions, total, query)
}

// HandleListFeatured godoc
// @Summary      List featured competitions
// @Tags         competitions
// @Produce      json
// @Param        skip   query     int  false  "rows to skip"
// @Param        limit  query     int  false  "page size (capped at 1000)"
// @Success      200  {object}  response.ListCompetitionsResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/featured [get]
func (h *CompetitionHandler) HandleListFeatured(ctx *gin.Context) {
	req, ok := bindListRequest(ctx)
	if !ok {
		return
	}

	query := listQueryFromRequest(req)

	competitions, total, err := h.svc.ListFeatured(ctx.Request.Context(), query)
	if err != nil {
		err = fmt.Errorf("v1.HandleListFeatured -> h.svc.ListFeatured -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	renderListing(ctx, competitions, total, query)
}

// HandleGetCompetition godoc
// @Summary      Get a competition by ID
// @Description  Unapproved competitions are only visible to their owner and admins; everyone else gets a 404.
// @Tags         competitions
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID} [get]
func (h *CompetitionHandler) HandleGetCompetition(ctx *gin.Context) {
	actor, respErr := optionalActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	competition, err := h.svc.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderServiceErr(ctx, "HandleGetCompetition", id, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCompetition(competition))
}

// HandleCreateCompetition godoc
// @Summary      Create a competition listing
// @Description  The listing starts unapproved and stays out of public results until an admin approves it.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateCompetitionRequest  true  "Competition details"
// @Success      201    {object}  response.Competition
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /competitions [post]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleCreateCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var input request.CreateCompetitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, service.CreateCompetitionInput{
		Title:                input.Title,
		Introduction:         input.Introduction,
		History:              input.History,
		ScoringDescription:   input.ScoringDescription,
		Awards:               input.Awards,
		Penalties:            input.Penalties,
		NotableAchievements:  input.NotableAchievements,
		Location:             input.Location,
		Format:               input.Format,
		Scale:                input.Scale,
		RegistrationDeadline: input.RegistrationDeadline,
		TargetAgeMin:         input.TargetAgeMin,
		TargetAgeMax:         input.TargetAgeMax,
		ExternalLink:         input.ExternalLink,
		ImageURLs:            input.ImageURLs,
	})
	if err != nil {
		h.renderServiceErr(ctx, "HandleCreateCompetition", "", err)

		return
	}

	ctx.JSON(http.StatusCreated, response.NewCompetition(created))
}

// HandleUpdateCompetition godoc
// @Summary      Update a competition listing
// @Description  Partial update; omitted fields keep their values. Owners and admins only. Moderation fields cannot be changed here.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        competitionID  path      string                            true  "Competition ID"
// @Param        input          body      request.UpdateCompetitionRequest  true  "Fields to update"
// @Success      200  {object}  response.Competition
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID} [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleUpdateCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	var input request.UpdateCompetitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), actor, id, service.UpdateCompetitionInput{
		Title:                input.Title,
		Introduction:         input.Introduction,
		History:              input.History,
		ScoringDescription:   input.ScoringDescription,
		Awards:               input.Awards,
		Penalties:            input.Penalties,
		NotableAchievements:  input.NotableAchievements,
		Location:             input.Location,
		Format:               input.Format,
		Scale:                input.Scale,
		RegistrationDeadline: input.RegistrationDeadline,
		TargetAgeMin:         input.TargetAgeMin,
		TargetAgeMax:         input.TargetAgeMax,
		ExternalLink:         input.ExternalLink,
		ImageURLs:            input.ImageURLs,
	})
	if err != nil {
		h.renderServiceErr(ctx, "HandleUpdateCompetition", id, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCompetition(updated))
}

// HandleDeleteCompetition godoc
// @Summary      Delete a competition listing
// @Description  Hard delete. Owners and admins only.
// @Tags         competitions
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID} [delete]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleDeleteCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderServiceErr(ctx, "HandleDeleteCompetition", id, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMyCompetitions godoc
// @Summary      List the authenticated user's competitions
// @Description  Includes pending and rejected listings, with rejection reasons.
// @Tags         competitions
// @Produce      json
// @Param        skip   query     int  false  "rows to skip"
// @Param        limit  query     int  false  "page size (capped at 1000)"
// @Success      200  {object}  response.ListCompetitionsResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/my/competitions [get]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleListMyCompetitions(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req, ok := bindListRequest(ctx)
	if !ok {
		return
	}

	query := listQueryFromRequest(req)

	competitions, total, err := h.svc.ListOwn(ctx.Request.Context(), actor, query)
	if err != nil {
		h.renderServiceErr(ctx, "HandleListMyCompetitions", "", err)

		return
	}

	renderListing(ctx, competitions, total, query)
}

// HandleListPending godoc
// @Summary      List competitions awaiting moderation (admin only)
// @Tags         moderation
// @Produce      json
// @Param        skip   query     int  false  "rows to skip"
// @Param        limit  query     int  false  "page size (capped at 1000)"
// @Success      200  {object}  response.ListCompetitionsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/pending [get]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleListPending(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req, ok := bindListRequest(ctx)
	if !ok {
		return
	}

	query := listQueryFromRequest(req)

	competitions, total, err := h.svc.ListPending(ctx.Request.Context(), actor, query)
	if err != nil {
		h.renderServiceErr(ctx, "HandleListPending", "", err)

		return
	}

	renderListing(ctx, competitions, total, query)
}

// HandleApproveCompetition godoc
// @Summary      Approve a competition (admin only)
// @Description  Publishes the listing. Re-approving refreshes the audit fields to the latest approver and time.
// @Tags         moderation
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/approve [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleApproveCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	approved, err := h.svc.Approve(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderServiceErr(ctx, "HandleApproveCompetition", id, err)

		return
	}

	metrics.ModerationDecisions.WithLabelValues("approve").Inc()
	ctx.JSON(http.StatusOK, response.NewCompetition(approved))
}

// HandleRejectCompetition godoc
// @Summary      Reject a competition (admin only)
// @Description  Takes the listing out of public results and records the reason for the owner to see.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        competitionID  path      string                            true  "Competition ID"
// @Param        input          body      request.RejectCompetitionRequest  true  "Rejection reason"
// @Success      200  {object}  response.Competition
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/reject [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleRejectCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	var input request.RejectCompetitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	rejected, err := h.svc.Reject(ctx.Request.Context(), actor, id, input.RejectionReason)
	if err != nil {
		h.renderServiceErr(ctx, "HandleRejectCompetition", id, err)

		return
	}

	metrics.ModerationDecisions.WithLabelValues("reject").Inc()
	ctx.JSON(http.StatusOK, response.NewCompetition(rejected))
}

// HandleFeatureCompetition godoc
// @Summary      Feature a competition (admin only)
// @Description  Only approved competitions can be featured.
// @Tags         moderation
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/feature [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleFeatureCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	featured, err := h.svc.Feature(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderServiceErr(ctx, "HandleFeatureCompetition", id, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCompetition(featured))
}

// HandleUnfeatureCompetition godoc
// @Summary      Unfeature a competition (admin only)
// @Tags         moderation
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/unfeature [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleUnfeatureCompetition(ctx *gin.Context) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	unfeatured, err := h.svc.Unfeature(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderServiceErr(ctx, "HandleUnfeatureCompetition", id, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCompetition(unfeatured))
}

// HandleActivateCompetition godoc
// @Summary      Activate a competition listing
// @Description  Owner or admin flips the visibility switch back on.
// @Tags         moderation
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/activate [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleActivateCompetition(ctx *gin.Context) {
	h.setCompetitionActive(ctx, true)
}

// HandleDeactivateCompetition godoc
// @Summary      Deactivate a competition listing
// @Tags         moderation
// @Produce      json
// @Param        competitionID  path      string  true  "Competition ID"
// @Success      200  {object}  response.Competition
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/competitions/{competitionID}/deactivate [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleDeactivateCompetition(ctx *gin.Context) {
	h.setCompetitionActive(ctx, false)
}

func (h *CompetitionHandler) setCompetitionActive(ctx *gin.Context, active bool) {
	actor, respErr := currentActor(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id := ctx.Param("competitionID")

	updated, err := h.svc.SetActive(ctx.Request.Context(), actor, id, active)
	if err != nil {
		h.renderServiceErr(ctx, "setCompetitionActive", id, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewCompetition(updated))
}

// renderServiceErr maps lifecycle manager errors onto the wire envelope.
func (h *CompetitionHandler) renderServiceErr(ctx *gin.Context, op, id string, err error) {
	switch {
	case errors.Is(err, service.ErrCompetitionNotFound):
		response.RenderErr(ctx, response.ErrNotFound("competition", "ID", id))
	case errors.Is(err, service.ErrPermissionDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrAccountInactive):
		response.RenderErr(ctx, response.ErrAccountInactive(err))
	case errors.Is(err, service.ErrDeadlineNotFuture),
		errors.Is(err, service.ErrInvalidAgeRange),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrRejectionReasonRequired),
		errors.Is(err, service.ErrCompetitionNotApproved):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func bindListRequest(ctx *gin.Context) (request.ListCompetitionsRequest, bool) {
	var req request.ListCompetitionsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return req, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return req, false
	}

	return req, true
}

func listQueryFromRequest(req request.ListCompetitionsRequest) service.ListCompetitionsQuery {
	return service.ListCompetitionsQuery{
		Skip:     req.Skip,
		Limit:    req.Limit,
		Format:   req.Format,
		Scale:    req.Scale,
		Location: req.Location,
		Search:   req.Search,
		SortBy:   req.SortBy,
		Order:    req.Order,
	}
}

func renderListing(ctx *gin.Context, competitions []domain.Competition, total int64, query service.ListCompetitionsQuery) {
	skip, limit := service.NormalizePage(query.Skip, query.Limit)
	ctx.JSON(http.StatusOK, response.NewListCompetitions(competitions, total, skip, limit))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository"
)

var (
	ErrCompetitionNotFound = repository.ErrCompetitionNotFound

	ErrPermissionDenied        = errors.New("not allowed to perform this action")
	ErrAccountInactive         = errors.New("account is deactivated")
	ErrDeadlineNotFuture       = errors.New("registration deadline must be in the future")
	ErrInvalidAgeRange         = errors.New("target_age_max must be greater than target_age_min")
	ErrInvalidURL              = errors.New("link fields must be well-formed http(s) URLs")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrCompetitionNotApproved  = errors.New("competition is not approved")
)

type CompetitionRepository interface {
	Create(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	FindByID(ctx context.Context, id string) (domain.Competition, error)
	Update(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string, adminID uint, at time.Time) (domain.Competition, error)
	Reject(ctx context.Context, id, reason string) (domain.Competition, error)
	SetFeatured(ctx context.Context, id string, featured bool) (domain.Competition, error)
	SetActive(ctx context.Context, id string, active bool) (domain.Competition, error)
	List(ctx context.Context, query repository.ListCompetitionsQuery) ([]domain.Competition, int64, error)
}

const (
	// MaxPageSize is the hard cap applied to every listing query; larger
	// caller-requested limits are clamped, not rejected.
	MaxPageSize     = 1000
	DefaultPageSize = 100
)

// NormalizePage mirrors the listing clamp so response envelopes echo the
// skip/limit values actually applied.
func NormalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return skip, limit
}

type CompetitionService struct {
	repo CompetitionRepository
}

func NewCompetitionService(repo CompetitionRepository) *CompetitionService {
	return &CompetitionService{
		repo: repo,
	}
}

type CreateCompetitionInput struct {
	Title                string
	Introduction         string
	History              string
	ScoringDescription   string
	Awards               string
	Penalties            string
	NotableAchievements  string
	Location             string
	Format               string
	Scale                string
	RegistrationDeadline time.Time
	TargetAgeMin         *int
	TargetAgeMax         *int
	ExternalLink         string
	ImageURLs            []string
}

// UpdateCompetitionInput carries a partial update; nil fields keep their prior
// value. A non-nil ImageURLs replaces the stored list wholesale.
type UpdateCompetitionInput struct {
	Title                *string
	Introduction         *string
	History              *string
	ScoringDescription   *string
	Awards               *string
	Penalties            *string
	NotableAchievements  *string
	Location             *string
	Format               *string
	Scale                *string
	RegistrationDeadline *time.Time
	TargetAgeMin         *int
	TargetAgeMax         *int
	ExternalLink         *string
	ImageURLs            []string
}

// ListCompetitionsQuery is the caller-facing listing filter. The service
// decides which fields a given surface may control.
type ListCompetitionsQuery struct {
	Skip  int
	Limit int

	Format     string
	Scale      string
	OwnerID    *uint
	IsApproved *bool
	IsFeatured *bool
	Location   string
	Search     string

	SortBy string
	Order  string
}

// requireActive gates every authenticated operation: anonymous actors are
// denied and deactivated accounts are rejected even when their token is still
// valid and their role would otherwise allow the action.
func requireActive(actor domain.Actor) error {
	if actor.IsAnonymous() {
		return ErrPermissionDenied
	}
	if !actor.IsActive {
		return ErrAccountInactive
	}

	return nil
}

func (s *CompetitionService) Create(ctx context.Context, actor domain.Actor, input CreateCompetitionInput) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}

	competition := domain.Competition{
		OwnerID:              actor.ID,
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
		IsActive:             true,
		IsFeatured:           false,
		IsApproved:           false,
	}

	if err := validateCompetition(competition, true); err != nil {
		return domain.Competition{}, err
	}

	created, err := s.repo.Create(ctx, competition)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Update applies a partial update after re-checking field invariants on the
// merged record. Moderation fields cannot be reached through this path.
func (s *CompetitionService) Update(ctx context.Context, actor domain.Actor, id string, input UpdateCompetitionInput) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}

	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanModify(actor, competition) {
		return domain.Competition{}, ErrPermissionDenied
	}

	merged := mergeUpdate(competition, input)

	if err = validateCompetition(merged, input.RegistrationDeadline != nil); err != nil {
		return domain.Competition{}, err
	}

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *CompetitionService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireActive(actor); err != nil {
		return err
	}

	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanDelete(actor, competition) {
		return ErrPermissionDenied
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// Get returns the record when the actor may see it. A pending record viewed
// by anyone but its owner or an admin reports not-found so its existence does
// not leak.
func (s *CompetitionService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error) {
	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanViewDetail(actor, competition) {
		return domain.Competition{}, ErrCompetitionNotFound
	}

	return competition, nil
}

// Approve is idempotent on state but always refreshes the audit fields to the
// latest approver and time.
func (s *CompetitionService) Approve(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}
	if !domain.CanModerate(actor) {
		return domain.Competition{}, ErrPermissionDenied
	}

	approved, err := s.repo.Approve(ctx, id, actor.ID, time.Now())
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	return approved, nil
}

func (s *CompetitionService) Reject(ctx context.Context, actor domain.Actor, id, reason string) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}
	if !domain.CanModerate(actor) {
		return domain.Competition{}, ErrPermissionDenied
	}
	if reason == "" {
		return domain.Competition{}, ErrRejectionReasonRequired
	}

	rejected, err := s.repo.Reject(ctx, id, reason)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	return rejected, nil
}

// Feature promotes an approved competition. Featuring an unapproved record is
// refused rather than silently allowed.
func (s *CompetitionService) Feature(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}
	if !domain.CanModerate(actor) {
		return domain.Competition{}, ErrPermissionDenied
	}

	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !competition.IsApproved {
		return domain.Competition{}, ErrCompetitionNotApproved
	}

	featured, err := s.repo.SetFeatured(ctx, id, true)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.SetFeatured -> %w", err)
	}

	return featured, nil
}

func (s *CompetitionService) Unfeature(ctx context.Context, actor domain.Actor, id string) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}
	if !domain.CanModerate(actor) {
		return domain.Competition{}, ErrPermissionDenied
	}

	unfeatured, err := s.repo.SetFeatured(ctx, id, false)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.SetFeatured -> %w", err)
	}

	return unfeatured, nil
}

// SetActive toggles the owner-facing visibility switch. Owners and admins may
// use it, unlike the moderation operations above.
func (s *CompetitionService) SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (domain.Competition, error) {
	if err := requireActive(actor); err != nil {
		return domain.Competition{}, err
	}

	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanModify(actor, competition) {
		return domain.Competition{}, ErrPermissionDenied
	}

	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	return updated, nil
}

// ListPublic serves the anonymous surface. Approval is forced on regardless
// of what the caller asked for.
func (s *CompetitionService) ListPublic(ctx context.Context, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	approved := true
	query.IsApproved = &approved
	query.OwnerID = nil

	return s.list(ctx, query)
}

// ListFeatured is the featured convenience query: approved and featured only.
func (s *CompetitionService) ListFeatured(ctx context.Context, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	approved := true
	featured := true
	query.IsApproved = &approved
	query.IsFeatured = &featured
	query.OwnerID = nil

	return s.list(ctx, query)
}

// ListOwn scopes the query to the actor's records, pending and rejected ones
// included.
func (s *CompetitionService) ListOwn(ctx context.Context, actor domain.Actor, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	if err := requireActive(actor); err != nil {
		return nil, 0, err
	}

	query.OwnerID = &actor.ID

	return s.list(ctx, query)
}

// ListPending serves the admin moderation queue.
func (s *CompetitionService) ListPending(ctx context.Context, actor domain.Actor, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	if err := requireActive(actor); err != nil {
		return nil, 0, err
	}
	if !domain.CanModerate(actor) {
		return nil, 0, ErrPermissionDenied
	}

	pending := false
	query.IsApproved = &pending

	return s.list(ctx, query)
}

func (s *CompetitionService) list(ctx context.Context, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	query.Skip, query.Limit = NormalizePage(query.Skip, query.Limit)

	competitions, total, err := s.repo.List(ctx, repository.ListCompetitionsQuery{
		Skip:       query.Skip,
		Limit:      query.Limit,
		Format:     query.Format,
		Scale:      query.Scale,
		OwnerID:    query.OwnerID,
		IsApproved: query.IsApproved,
		IsFeatured: query.IsFeatured,
		Location:   query.Location,
		Search:     query.Search,
		SortBy:     query.SortBy,
		Order:      query.Order,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return competitions, total, nil
}

func mergeUpdate(c domain.Competition, input UpdateCompetitionInput) domain.Competition {
	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Introduction != nil {
		c.Introduction = *input.Introduction
	}
	if input.History != nil {
		c.History = *input.History
	}
	if input.ScoringDescription != nil {
		c.ScoringDescription = *input.ScoringDescription
	}
	if input.Awards != nil {
		c.Awards = *input.Awards
	}
	if input.Penalties != nil {
		c.Penalties = *input.Penalties
	}
	if input.NotableAchievements != nil {
		c.NotableAchievements = *input.NotableAchievements
	}
	if input.Location != nil {
		c.Location = *input.Location
	}
	if input.Format != nil {
		c.Format = *input.Format
	}
	if input.Scale != nil {
		c.Scale = *input.Scale
	}
	if input.RegistrationDeadline != nil {
		c.RegistrationDeadline = *input.RegistrationDeadline
	}
	if input.TargetAgeMin != nil {
		c.TargetAgeMin = input.TargetAgeMin
	}
	if input.TargetAgeMax != nil {
		c.TargetAgeMax = input.TargetAgeMax
	}
	if input.ExternalLink != nil {
		c.ExternalLink = *input.ExternalLink
	}
	if input.ImageURLs != nil {
		c.ImageURLs = input.ImageURLs
	}

	return c
}

// validateCompetition re-checks the field invariants on the full record. The
// deadline is only checked when this call actually sets it, so editing a
// record whose deadline has since passed stays possible.
func validateCompetition(c domain.Competition, deadlineSet bool) error {
	if deadlineSet && !c.RegistrationDeadline.After(time.Now()) {
		return ErrDeadlineNotFuture
	}

	if c.TargetAgeMin != nil && c.TargetAgeMax != nil && *c.TargetAgeMax <= *c.TargetAgeMin {
		return ErrInvalidAgeRange
	}

	if c.ExternalLink != "" {
		if err := validateHTTPURL(c.ExternalLink); err != nil {
			return err
		}
	}
	for _, u := range c.ImageURLs {
		if err := validateHTTPURL(u); err != nil {
			return err
		}
	}

	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ErrInvalidURL
	}

	return nil
}

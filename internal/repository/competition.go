package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository/dao"
)

var ErrCompetitionNotFound = dao.ErrCompetitionNotFound

// ListCompetitionsQuery mirrors the listing filters accepted by the DAO.
// Pointer fields distinguish "not filtered" from a false filter value.
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

type CompetitionDAO interface {
	Insert(ctx context.Context, competition dao.Competition) (dao.Competition, error)
	FindByID(ctx context.Context, id string) (dao.Competition, error)
	Update(ctx context.Context, competition dao.Competition) (dao.Competition, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (dao.Competition, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query dao.CompetitionQuery) ([]dao.Competition, int64, error)
}

type CompetitionRepository struct {
	dao CompetitionDAO
}

func NewCompetitionRepository(dao CompetitionDAO) *CompetitionRepository {
	return &CompetitionRepository{
		dao: dao,
	}
}

func (r *CompetitionRepository) Create(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(competition))
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompetitionRepository) FindByID(ctx context.Context, id string) (domain.Competition, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CompetitionRepository) Update(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(competition))
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CompetitionRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) Approve(ctx context.Context, id string, adminID uint, at time.Time) (domain.Competition, error) {
	updated, err := r.dao.UpdateFields(ctx, id, map[string]interface{}{
		"is_approved":      true,
		"approved_by":      adminID,
		"approved_at":      at,
		"rejection_reason": nil,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

// Reject flips approval off and records the reason. A prior approval's
// approved_by/approved_at audit trail is kept on purpose.
func (r *CompetitionRepository) Reject(ctx context.Context, id, reason string) (domain.Competition, error) {
	updated, err := r.dao.UpdateFields(ctx, id, map[string]interface{}{
		"is_approved":      false,
		"rejection_reason": reason,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CompetitionRepository) SetFeatured(ctx context.Context, id string, featured bool) (domain.Competition, error) {
	updated, err := r.dao.UpdateFields(ctx, id, map[string]interface{}{
		"is_featured": featured,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CompetitionRepository) SetActive(ctx context.Context, id string, active bool) (domain.Competition, error) {
	updated, err := r.dao.UpdateFields(ctx, id, map[string]interface{}{
		"is_active": active,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CompetitionRepository) List(ctx context.Context, query ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	found, total, err := r.dao.List(ctx, dao.CompetitionQuery{
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
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	competitions := make([]domain.Competition, 0, len(found))
	for _, c := range found {
		competitions = append(competitions, r.daoToDomain(c))
	}

	return competitions, total, nil
}

func (r *CompetitionRepository) domainToDAO(c domain.Competition) dao.Competition {
	return dao.Competition{
		ID:                   c.ID,
		OwnerID:              c.OwnerID,
		Title:                c.Title,
		Introduction:         c.Introduction,
		History:              c.History,
		ScoringDescription:   c.ScoringDescription,
		Awards:               c.Awards,
		Penalties:            c.Penalties,
		NotableAchievements:  c.NotableAchievements,
		Location:             c.Location,
		Format:               c.Format,
		Scale:                c.Scale,
		RegistrationDeadline: c.RegistrationDeadline,
		TargetAgeMin:         c.TargetAgeMin,
		TargetAgeMax:         c.TargetAgeMax,
		ExternalLink:         c.ExternalLink,
		ImageURLs:            c.ImageURLs,
		IsActive:             c.IsActive,
		IsFeatured:           c.IsFeatured,
		IsApproved:           c.IsApproved,
		ApprovedBy:           c.ApprovedBy,
		ApprovedAt:           c.ApprovedAt,
		RejectionReason:      c.RejectionReason,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func (r *CompetitionRepository) daoToDomain(c dao.Competition) domain.Competition {
	return domain.Competition{
		ID:                   c.ID,
		OwnerID:              c.OwnerID,
		Title:                c.Title,
		Introduction:         c.Introduction,
		History:              c.History,
		ScoringDescription:   c.ScoringDescription,
		Awards:               c.Awards,
		Penalties:            c.Penalties,
		NotableAchievements:  c.NotableAchievements,
		Location:             c.Location,
		Format:               c.Format,
		Scale:                c.Scale,
		RegistrationDeadline: c.RegistrationDeadline,
		TargetAgeMin:         c.TargetAgeMin,
		TargetAgeMax:         c.TargetAgeMax,
		ExternalLink:         c.ExternalLink,
		ImageURLs:            c.ImageURLs,
		IsActive:             c.IsActive,
		IsFeatured:           c.IsFeatured,
		IsApproved:           c.IsApproved,
		ApprovedBy:           c.ApprovedBy,
		ApprovedAt:           c.ApprovedAt,
		RejectionReason:      c.RejectionReason,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

package response

import (
	"time"

	"github.com/sci-insight/sci-api/internal/domain"
)

type Competition struct {
	ID      string `json:"id"`
	OwnerID uint   `json:"owner_id"`

	Title               string `json:"title"`
	Introduction        string `json:"introduction,omitempty"`
	History             string `json:"history,omitempty"`
	ScoringDescription  string `json:"scoring_description,omitempty"`
	Awards              string `json:"awards,omitempty"`
	Penalties           string `json:"penalties,omitempty"`
	NotableAchievements string `json:"notable_achievements,omitempty"`

	Location             string    `json:"location"`
	Format               string    `json:"format"`
	Scale                string    `json:"scale"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	TargetAgeMin         *int      `json:"target_age_min,omitempty"`
	TargetAgeMax         *int      `json:"target_age_max,omitempty"`
	ExternalLink         string    `json:"external_link,omitempty"`
	ImageURLs            []string  `json:"image_urls"`

	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
	IsFeatured bool   `json:"is_featured"`
	IsApproved bool   `json:"is_approved"`

	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListCompetitionsResponse is the pagination envelope shared by every listing
// route. Total counts matches before pagination; skip and limit echo the
// normalized values actually applied.
type ListCompetitionsResponse struct {
	Items []Competition `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

func NewCompetition(c domain.Competition) Competition {
	imageURLs := c.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	return Competition{
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
		ImageURLs:            imageURLs,
		Status:               c.Status(),
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

func NewListCompetitions(items []domain.Competition, total int64, skip, limit int) ListCompetitionsResponse {
	converted := make([]Competition, 0, len(items))
	for _, c := range items {
		converted = append(converted, NewCompetition(c))
	}

	return ListCompetitionsResponse{
		Items: converted,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}

package request

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	maxTitleLength     = 200
	maxLocationLength  = 200
	maxNarrativeLength = 5000
	maxLinkLength      = 500
)

var (
	formats = []interface{}{"ONLINE", "OFFLINE", "HYBRID"}
	scales  = []interface{}{"PROVINCIAL", "REGIONAL", "INTERNATIONAL"}
)

type CreateCompetitionRequest struct {
	Title                string    `json:"title"`
	Introduction         string    `json:"introduction"`
	History              string    `json:"history"`
	ScoringDescription   string    `json:"scoring_description"`
	Awards               string    `json:"awards"`
	Penalties            string    `json:"penalties"`
	NotableAchievements  string    `json:"notable_achievements"`
	Location             string    `json:"location"`
	Format               string    `json:"format"`
	Scale                string    `json:"scale"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	TargetAgeMin         *int      `json:"target_age_min"`
	TargetAgeMax         *int      `json:"target_age_max"`
	ExternalLink         string    `json:"external_link"`
	ImageURLs            []string  `json:"image_urls"`
}

func (req *CreateCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&req.Introduction, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.History, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.ScoringDescription, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Awards, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Penalties, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.NotableAchievements, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, maxLocationLength)),
		validation.Field(&req.Format, validation.Required, validation.In(formats...)),
		validation.Field(&req.Scale, validation.Required, validation.In(scales...)),
		validation.Field(&req.RegistrationDeadline, validation.Required),
		validation.Field(&req.TargetAgeMin, validation.Min(0)),
		validation.Field(&req.TargetAgeMax, validation.Min(0)),
		validation.Field(&req.ExternalLink, validation.Length(0, maxLinkLength), is.URL),
		validation.Field(&req.ImageURLs, validation.By(validateURLList)),
	)
}

// UpdateCompetitionRequest is a partial update; absent fields are left alone.
// A present image_urls replaces the stored list wholesale.
type UpdateCompetitionRequest struct {
	Title                *string    `json:"title"`
	Introduction         *string    `json:"introduction"`
	History              *string    `json:"history"`
	ScoringDescription   *string    `json:"scoring_description"`
	Awards               *string    `json:"awards"`
	Penalties            *string    `json:"penalties"`
	NotableAchievements  *string    `json:"notable_achievements"`
	Location             *string    `json:"location"`
	Format               *string    `json:"format"`
	Scale                *string    `json:"scale"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	TargetAgeMin         *int       `json:"target_age_min"`
	TargetAgeMax         *int       `json:"target_age_max"`
	ExternalLink         *string    `json:"external_link"`
	ImageURLs            []string   `json:"image_urls"`
}

func (req *UpdateCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(1, maxTitleLength)),
		validation.Field(&req.Introduction, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.History, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.ScoringDescription, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Awards, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Penalties, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.NotableAchievements, validation.Length(0, maxNarrativeLength)),
		validation.Field(&req.Location, validation.Length(1, maxLocationLength)),
		validation.Field(&req.Format, validation.In(formats...)),
		validation.Field(&req.Scale, validation.In(scales...)),
		validation.Field(&req.TargetAgeMin, validation.Min(0)),
		validation.Field(&req.TargetAgeMax, validation.Min(0)),
		validation.Field(&req.ExternalLink, validation.Length(0, maxLinkLength), is.URL),
		validation.Field(&req.ImageURLs, validation.By(validateURLList)),
	)
}

type ListCompetitionsRequest struct {
	Skip     int    `form:"skip"`
	Limit    int    `form:"limit"`
	Format   string `form:"format"`
	Scale    string `form:"scale"`
	Location string `form:"location"`
	Search   string `form:"search"`
	SortBy   string `form:"sort_by"`
	Order    string `form:"order"`
}

func (req *ListCompetitionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Skip, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(0)),
		validation.Field(&req.Format, validation.In(formats...)),
		validation.Field(&req.Scale, validation.In(scales...)),
		validation.Field(&req.SortBy, validation.In("created_at", "registration_deadline", "title")),
		validation.Field(&req.Order, validation.In("asc", "desc")),
	)
}

type RejectCompetitionRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

func (req *RejectCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RejectionReason, validation.Required, validation.Length(1, 2000)),
	)
}

func validateURLList(value interface{}) error {
	urls, ok := value.([]string)
	if !ok {
		if value == nil {
			return nil
		}

		return fmt.Errorf("invalid image URL list")
	}

	for _, u := range urls {
		if err := validation.Validate(u, validation.Required, validation.Length(1, maxLinkLength), is.URL); err != nil {
			return fmt.Errorf("%v: %w", u, err)
		}
	}

	return nil
}

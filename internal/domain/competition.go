package domain

import "time"

const (
	FormatOnline  = "ONLINE"
	FormatOffline = "OFFLINE"
	FormatHybrid  = "HYBRID"

	ScaleProvincial    = "PROVINCIAL"
	ScaleRegional      = "REGIONAL"
	ScaleInternational = "INTERNATIONAL"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Competition struct {
	ID      string `json:"id"`
	OwnerID uint   `json:"owner_id"`

	Title                string `json:"title"`
	Introduction         string `json:"introduction,omitempty"`
	History              string `json:"history,omitempty"`
	ScoringDescription   string `json:"scoring_description,omitempty"`
	Awards               string `json:"awards,omitempty"`
	Penalties            string `json:"penalties,omitempty"`
	NotableAchievements  string `json:"notable_achievements,omitempty"`
	Location             string `json:"location"`
	Format               string `json:"format"`
	Scale                string `json:"scale"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	TargetAgeMin         *int      `json:"target_age_min,omitempty"`
	TargetAgeMax         *int      `json:"target_age_max,omitempty"`
	ExternalLink         string    `json:"external_link,omitempty"`
	ImageURLs            []string  `json:"image_urls"`

	IsActive   bool `json:"is_active"`
	IsFeatured bool `json:"is_featured"`
	IsApproved bool `json:"is_approved"`

	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status derives the moderation state from the persisted flags. A competition
// with is_approved=false is pending until a rejection reason has been recorded.
func (c Competition) Status() string {
	if c.IsApproved {
		return StatusApproved
	}
	if c.RejectionReason != nil && *c.RejectionReason != "" {
		return StatusRejected
	}
	return StatusPending
}

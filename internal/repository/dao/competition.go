package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrCompetitionNotFound = errors.New("competition not found")

const (
	// MaxPageSize is a hard cap applied to every listing query.
	MaxPageSize     = 1000
	DefaultPageSize = 100
)

type Competition struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	OwnerID uint   `gorm:"not null;index"`

	Title               string `gorm:"size:200;not null"`
	Introduction        string `gorm:"size:5000"`
	History             string `gorm:"size:5000"`
	ScoringDescription  string `gorm:"size:5000"`
	Awards              string `gorm:"size:5000"`
	Penalties           string `gorm:"size:5000"`
	NotableAchievements string `gorm:"size:5000"`

	Location             string         `gorm:"size:200;not null"`
	Format               string         `gorm:"size:16;not null"`
	Scale                string         `gorm:"size:16;not null"`
	RegistrationDeadline time.Time      `gorm:"not null"`
	TargetAgeMin         *int
	TargetAgeMax         *int
	ExternalLink         string         `gorm:"size:500"`
	ImageURLs            pq.StringArray `gorm:"type:text[]"`

	IsActive   bool `gorm:"not null;default:true"`
	IsFeatured bool `gorm:"not null;default:false"`
	IsApproved bool `gorm:"not null;default:false;index"`

	ApprovedBy      *uint
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// CompetitionQuery carries listing filters. Pointer fields distinguish
// "not filtered" from a false filter value.
type CompetitionQuery struct {
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

var sortColumns = map[string]string{
	"created_at":            "created_at",
	"registration_deadline": "registration_deadline",
	"title":                 "title",
}

// Normalize clamps pagination to the hard cap and falls back to the default
// sort. The normalized values are what listing responses echo back.
func (q *CompetitionQuery) Normalize() {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = "created_at"
	}
	if q.Order != "asc" && q.Order != "desc" {
		q.Order = "desc"
	}
}

type CompetitionDAO struct {
	db *gorm.DB
}

func NewCompetitionDAO(db *gorm.DB) *CompetitionDAO {
	return &CompetitionDAO{
		db: db,
	}
}

func (d *CompetitionDAO) Insert(ctx context.Context, competition Competition) (Competition, error) {
	if competition.ID == "" {
		competition.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&competition)
	if result.Error != nil {
		return Competition{}, result.Error
	}

	return competition, nil
}

func (d *CompetitionDAO) FindByID(ctx context.Context, id string) (Competition, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Competition{}, ErrCompetitionNotFound
	}

	var competition Competition

	result := d.db.WithContext(ctx).First(&competition, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Competition{}, ErrCompetitionNotFound
		}

		return Competition{}, result.Error
	}

	return competition, nil
}

// Update persists the full merged record in a single statement. A plain
// UPDATE rather than Save: a record deleted between load and write must stay
// deleted, not be re-inserted.
func (d *CompetitionDAO) Update(ctx context.Context, competition Competition) (Competition, error) {
	if _, err := uuid.Parse(competition.ID); err != nil {
		return Competition{}, ErrCompetitionNotFound
	}

	result := d.db.WithContext(ctx).
		Model(&Competition{}).
		Where("id = ?", competition.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&competition)
	if result.Error != nil {
		return Competition{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Competition{}, ErrCompetitionNotFound
	}

	return d.FindByID(ctx, competition.ID)
}

// UpdateFields applies a moderation-style partial update in a single statement.
// gorm bumps updated_at on its own.
func (d *CompetitionDAO) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (Competition, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Competition{}, ErrCompetitionNotFound
	}

	result := d.db.WithContext(ctx).
		Model(&Competition{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return Competition{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Competition{}, ErrCompetitionNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *CompetitionDAO) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrCompetitionNotFound
	}

	result := d.db.WithContext(ctx).Delete(&Competition{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompetitionNotFound
	}

	return nil
}

// List runs the filtered, paginated query and returns the page together with
// the total match count before pagination. Sort ties break on id ascending so
// identical queries return identical pages.
func (d *CompetitionDAO) List(ctx context.Context, query CompetitionQuery) ([]Competition, int64, error) {
	query.Normalize()

	tx := d.db.WithContext(ctx).Model(&Competition{})

	if query.Format != "" {
		tx = tx.Where("format = ?", query.Format)
	}
	if query.Scale != "" {
		tx = tx.Where("scale = ?", query.Scale)
	}
	if query.OwnerID != nil {
		tx = tx.Where("owner_id = ?", *query.OwnerID)
	}
	if query.IsApproved != nil {
		tx = tx.Where("is_approved = ?", *query.IsApproved)
	}
	if query.IsFeatured != nil {
		tx = tx.Where("is_featured = ?", *query.IsFeatured)
	}
	if query.Location != "" {
		tx = tx.Where("location ILIKE ?", "%"+escapeLike(query.Location)+"%")
	}
	if query.Search != "" {
		pattern := "%" + escapeLike(query.Search) + "%"
		tx = tx.Where("title ILIKE ? OR introduction ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var competitions []Competition
	result := tx.
		Order(fmt.Sprintf("%v %v, id asc", sortColumns[query.SortBy], query.Order)).
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&competitions)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return competitions, total, nil
}

// escapeLike neutralizes LIKE/ILIKE metacharacters so user input matches
// literally inside the %...% wrapper.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sci-insight/sci-api/internal/domain"
	"github.com/sci-insight/sci-api/internal/repository"
	"github.com/sci-insight/sci-api/internal/service"
)

type fakeCompetitionRepo struct {
	records   map[string]domain.Competition
	nextID    int
	lastQuery repository.ListCompetitionsQuery
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{
		records: make(map[string]domain.Competition),
	}
}

func (r *fakeCompetitionRepo) Create(_ context.Context, c domain.Competition) (domain.Competition, error) {
	r.nextID++
	c.ID = time.Now().Format("20060102") + "-" + string(rune('a'+r.nextID))
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.records[c.ID] = c

	return c, nil
}

func (r *fakeCompetitionRepo) FindByID(_ context.Context, id string) (domain.Competition, error) {
	c, ok := r.records[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}

	return c, nil
}

func (r *fakeCompetitionRepo) Update(_ context.Context, c domain.Competition) (domain.Competition, error) {
	if _, ok := r.records[c.ID]; !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	c.UpdatedAt = time.Now()
	r.records[c.ID] = c

	return c, nil
}

func (r *fakeCompetitionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return repository.ErrCompetitionNotFound
	}
	delete(r.records, id)

	return nil
}

func (r *fakeCompetitionRepo) Approve(_ context.Context, id string, adminID uint, at time.Time) (domain.Competition, error) {
	c, ok := r.records[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	c.IsApproved = true
	c.ApprovedBy = &adminID
	c.ApprovedAt = &at
	c.RejectionReason = nil
	c.UpdatedAt = time.Now()
	r.records[id] = c

	return c, nil
}

func (r *fakeCompetitionRepo) Reject(_ context.Context, id, reason string) (domain.Competition, error) {
	c, ok := r.records[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	c.IsApproved = false
	c.RejectionReason = &reason
	c.UpdatedAt = time.Now()
	r.records[id] = c

	return c, nil
}

func (r *fakeCompetitionRepo) SetFeatured(_ context.Context, id string, featured bool) (domain.Competition, error) {
	c, ok := r.records[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	c.IsFeatured = featured
	r.records[id] = c

	return c, nil
}

func (r *fakeCompetitionRepo) SetActive(_ context.Context, id string, active bool) (domain.Competition, error) {
	c, ok := r.records[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	c.IsActive = active
	r.records[id] = c

	return c, nil
}

func (r *fakeCompetitionRepo) List(_ context.Context, query repository.ListCompetitionsQuery) ([]domain.Competition, int64, error) {
	r.lastQuery = query

	var matched []domain.Competition
	for _, c := range r.records {
		if query.IsApproved != nil && c.IsApproved != *query.IsApproved {
			continue
		}
		if query.IsFeatured != nil && c.IsFeatured != *query.IsFeatured {
			continue
		}
		if query.OwnerID != nil && c.OwnerID != *query.OwnerID {
			continue
		}
		matched = append(matched, c)
	}

	return matched, int64(len(matched)), nil
}

var (
	admin    = domain.Actor{ID: 1, Role: domain.RoleAdmin, IsActive: true}
	owner    = domain.Actor{ID: 2, Role: domain.RoleCreator, IsActive: true}
	stranger = domain.Actor{ID: 3, Role: domain.RoleCreator, IsActive: true}
)

func validCreateInput() service.CreateCompetitionInput {
	return service.CreateCompetitionInput{
		Title:                "Regional Math Meet",
		Location:             "City X",
		Format:               domain.FormatOffline,
		Scale:                domain.ScaleRegional,
		RegistrationDeadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCompetitionService_Create(t *testing.T) {
	t.Run("persists a pending record owned by the actor", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		created, err := svc.Create(context.Background(), owner, validCreateInput())

		require.NoError(t, err)
		assert.Equal(t, owner.ID, created.OwnerID)
		assert.False(t, created.IsApproved)
		assert.False(t, created.IsFeatured)
		assert.True(t, created.IsActive)
		assert.Equal(t, domain.StatusPending, created.Status())
	})

	t.Run("rejects anonymous actors", func(t *testing.T) {
		svc := service.NewCompetitionService(newFakeCompetitionRepo())

		_, err := svc.Create(context.Background(), domain.Actor{}, validCreateInput())

		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("rejects deactivated accounts", func(t *testing.T) {
		svc := service.NewCompetitionService(newFakeCompetitionRepo())
		inactive := domain.Actor{ID: 5, Role: domain.RoleCreator, IsActive: false}

		_, err := svc.Create(context.Background(), inactive, validCreateInput())

		assert.ErrorIs(t, err, service.ErrAccountInactive)
	})

	t.Run("rejects a deadline in the past", func(t *testing.T) {
		svc := service.NewCompetitionService(newFakeCompetitionRepo())

		input := validCreateInput()
		input.RegistrationDeadline = time.Now().Add(-time.Hour)
		_, err := svc.Create(context.Background(), owner, input)

		assert.ErrorIs(t, err, service.ErrDeadlineNotFuture)
	})

	t.Run("rejects an inverted age range", func(t *testing.T) {
		svc := service.NewCompetitionService(newFakeCompetitionRepo())

		minAge, maxAge := 18, 12
		input := validCreateInput()
		input.TargetAgeMin = &minAge
		input.TargetAgeMax = &maxAge
		_, err := svc.Create(context.Background(), owner, input)
		assert.ErrorIs(t, err, service.ErrInvalidAgeRange)

		input.TargetAgeMin = &maxAge
		input.TargetAgeMax = &minAge
		_, err = svc.Create(context.Background(), owner, input)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed link fields", func(t *testing.T) {
		svc := service.NewCompetitionService(newFakeCompetitionRepo())

		input := validCreateInput()
		input.ExternalLink = "ftp://example.com/info"
		_, err := svc.Create(context.Background(), owner, input)
		assert.ErrorIs(t, err, service.ErrInvalidURL)

		input = validCreateInput()
		input.ImageURLs = []string{"https://cdn.example.com/a.png", "not a url"}
		_, err = svc.Create(context.Background(), owner, input)
		assert.ErrorIs(t, err, service.ErrInvalidURL)
	})
}

func TestCompetitionService_Update(t *testing.T) {
	setup := func(t *testing.T) (*fakeCompetitionRepo, *service.CompetitionService, domain.Competition) {
		t.Helper()

		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)
		created, err := svc.Create(context.Background(), owner, validCreateInput())
		require.NoError(t, err)

		return repo, svc, created
	}

	t.Run("applies only the provided fields", func(t *testing.T) {
		_, svc, created := setup(t)

		newTitle := "Provincial Physics Cup"
		updated, err := svc.Update(context.Background(), owner, created.ID, service.UpdateCompetitionInput{
			Title: &newTitle,
		})

		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, created.Location, updated.Location)
		assert.Equal(t, created.RegistrationDeadline, updated.RegistrationDeadline)
	})

	t.Run("foreign creator is denied and the record is untouched", func(t *testing.T) {
		repo, svc, created := setup(t)

		newTitle := "Hijacked"
		_, err := svc.Update(context.Background(), stranger, created.ID, service.UpdateCompetitionInput{
			Title: &newTitle,
		})

		assert.ErrorIs(t, err, service.ErrPermissionDenied)
		assert.Equal(t, created.Title, repo.records[created.ID].Title)
	})

	t.Run("admin may update regardless of ownership", func(t *testing.T) {
		_, svc, created := setup(t)

		newTitle := "Renamed by moderation"
		updated, err := svc.Update(context.Background(), admin, created.ID, service.UpdateCompetitionInput{
			Title: &newTitle,
		})

		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, owner.ID, updated.OwnerID)
	})

	t.Run("a new deadline must still be in the future", func(t *testing.T) {
		_, svc, created := setup(t)

		past := time.Now().Add(-time.Minute)
		_, err := svc.Update(context.Background(), owner, created.ID, service.UpdateCompetitionInput{
			RegistrationDeadline: &past,
		})

		assert.ErrorIs(t, err, service.ErrDeadlineNotFuture)
	})

	t.Run("age invariant is checked against the merged record", func(t *testing.T) {
		repo, svc, created := setup(t)

		minAge := 14
		c := repo.records[created.ID]
		c.TargetAgeMin = &minAge
		repo.records[created.ID] = c

		tooLow := 10
		_, err := svc.Update(context.Background(), owner, created.ID, service.UpdateCompetitionInput{
			TargetAgeMax: &tooLow,
		})

		assert.ErrorIs(t, err, service.ErrInvalidAgeRange)
	})

	t.Run("image list is replaced wholesale", func(t *testing.T) {
		_, svc, created := setup(t)

		_, err := svc.Update(context.Background(), owner, created.ID, service.UpdateCompetitionInput{
			ImageURLs: []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"},
		})
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), owner, created.ID, service.UpdateCompetitionInput{
			ImageURLs: []string{"https://cdn.example.com/c.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/c.png"}, updated.ImageURLs)
	})

	t.Run("missing record reports not found", func(t *testing.T) {
		_, svc, _ := setup(t)

		_, err := svc.Update(context.Background(), owner, "nope", service.UpdateCompetitionInput{})

		assert.ErrorIs(t, err, service.ErrCompetitionNotFound)
	})
}

func TestCompetitionService_Delete(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), stranger, created.ID), service.ErrPermissionDenied)
	require.NoError(t, svc.Delete(context.Background(), admin, created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, created.ID), service.ErrCompetitionNotFound)
}

func TestCompetitionService_Get(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	// Pending: hidden from everyone but owner and admin, disguised as 404.
	_, err = svc.Get(context.Background(), domain.Actor{}, created.ID)
	assert.ErrorIs(t, err, service.ErrCompetitionNotFound)
	_, err = svc.Get(context.Background(), stranger, created.ID)
	assert.ErrorIs(t, err, service.ErrCompetitionNotFound)

	_, err = svc.Get(context.Background(), owner, created.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), admin, created.ID)
	assert.NoError(t, err)

	// Approved: visible to all.
	_, err = svc.Approve(context.Background(), admin, created.ID)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), domain.Actor{}, created.ID)
	assert.NoError(t, err)
}

func TestCompetitionService_ModerationRoundTrip(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), owner, created.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	approved, err := svc.Approve(context.Background(), admin, created.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)
	assert.Nil(t, approved.RejectionReason)

	rejected, err := svc.Reject(context.Background(), admin, created.ID, "Insufficient detail")
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Insufficient detail", *rejected.RejectionReason)
	// A prior approval's audit trail is preserved on reject.
	assert.NotNil(t, rejected.ApprovedBy)
	assert.Equal(t, domain.StatusRejected, rejected.Status())

	secondAdmin := domain.Actor{ID: 42, Role: domain.RoleAdmin, IsActive: true}
	reapproved, err := svc.Approve(context.Background(), secondAdmin, created.ID)
	require.NoError(t, err)
	assert.True(t, reapproved.IsApproved)
	assert.Nil(t, reapproved.RejectionReason)
	require.NotNil(t, reapproved.ApprovedBy)
	assert.Equal(t, secondAdmin.ID, *reapproved.ApprovedBy)

	_, err = svc.Reject(context.Background(), admin, created.ID, "")
	assert.ErrorIs(t, err, service.ErrRejectionReasonRequired)
}

func TestCompetitionService_Feature(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	_, err = svc.Feature(context.Background(), admin, created.ID)
	assert.ErrorIs(t, err, service.ErrCompetitionNotApproved)

	_, err = svc.Approve(context.Background(), admin, created.ID)
	require.NoError(t, err)

	featured, err := svc.Feature(context.Background(), admin, created.ID)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)

	unfeatured, err := svc.Unfeature(context.Background(), admin, created.ID)
	require.NoError(t, err)
	assert.False(t, unfeatured.IsFeatured)

	_, err = svc.Feature(context.Background(), owner, created.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCompetitionService_DeactivatedActor(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	// Deactivation locks the account out even of its own records, and an
	// inactive admin loses moderation powers.
	inactiveOwner := domain.Actor{ID: owner.ID, Role: domain.RoleCreator, IsActive: false}
	inactiveAdmin := domain.Actor{ID: admin.ID, Role: domain.RoleAdmin, IsActive: false}

	newTitle := "Should not land"
	_, err = svc.Update(context.Background(), inactiveOwner, created.ID, service.UpdateCompetitionInput{
		Title: &newTitle,
	})
	assert.ErrorIs(t, err, service.ErrAccountInactive)
	assert.Equal(t, created.Title, repo.records[created.ID].Title)

	err = svc.Delete(context.Background(), inactiveOwner, created.ID)
	assert.ErrorIs(t, err, service.ErrAccountInactive)

	_, err = svc.Approve(context.Background(), inactiveAdmin, created.ID)
	assert.ErrorIs(t, err, service.ErrAccountInactive)
	assert.False(t, repo.records[created.ID].IsApproved)

	_, err = svc.Reject(context.Background(), inactiveAdmin, created.ID, "reason")
	assert.ErrorIs(t, err, service.ErrAccountInactive)

	_, err = svc.Feature(context.Background(), inactiveAdmin, created.ID)
	assert.ErrorIs(t, err, service.ErrAccountInactive)

	_, err = svc.SetActive(context.Background(), inactiveOwner, created.ID, false)
	assert.ErrorIs(t, err, service.ErrAccountInactive)

	_, _, err = svc.ListOwn(context.Background(), inactiveOwner, service.ListCompetitionsQuery{})
	assert.ErrorIs(t, err, service.ErrAccountInactive)

	_, _, err = svc.ListPending(context.Background(), inactiveAdmin, service.ListCompetitionsQuery{})
	assert.ErrorIs(t, err, service.ErrAccountInactive)
}

func TestCompetitionService_SetActive(t *testing.T) {
	repo := newFakeCompetitionRepo()
	svc := service.NewCompetitionService(repo)
	created, err := svc.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	deactivated, err := svc.SetActive(context.Background(), owner, created.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = svc.SetActive(context.Background(), stranger, created.ID, true)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	reactivated, err := svc.SetActive(context.Background(), admin, created.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestCompetitionService_ListModes(t *testing.T) {
	t.Run("public mode forces approval on", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		requested := false
		_, _, err := svc.ListPublic(context.Background(), service.ListCompetitionsQuery{
			IsApproved: &requested, // caller asks for unapproved; must be overridden
		})

		require.NoError(t, err)
		require.NotNil(t, repo.lastQuery.IsApproved)
		assert.True(t, *repo.lastQuery.IsApproved)
	})

	t.Run("featured mode forces approved and featured", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		_, _, err := svc.ListFeatured(context.Background(), service.ListCompetitionsQuery{})

		require.NoError(t, err)
		require.NotNil(t, repo.lastQuery.IsApproved)
		require.NotNil(t, repo.lastQuery.IsFeatured)
		assert.True(t, *repo.lastQuery.IsApproved)
		assert.True(t, *repo.lastQuery.IsFeatured)
	})

	t.Run("own mode scopes to the actor and keeps unapproved visible", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		_, _, err := svc.ListOwn(context.Background(), owner, service.ListCompetitionsQuery{})

		require.NoError(t, err)
		require.NotNil(t, repo.lastQuery.OwnerID)
		assert.Equal(t, owner.ID, *repo.lastQuery.OwnerID)
		assert.Nil(t, repo.lastQuery.IsApproved)

		_, _, err = svc.ListOwn(context.Background(), domain.Actor{}, service.ListCompetitionsQuery{})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("pending mode is admin-only and forces approval off", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		_, _, err := svc.ListPending(context.Background(), admin, service.ListCompetitionsQuery{})
		require.NoError(t, err)
		require.NotNil(t, repo.lastQuery.IsApproved)
		assert.False(t, *repo.lastQuery.IsApproved)

		_, _, err = svc.ListPending(context.Background(), owner, service.ListCompetitionsQuery{})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("oversized limits are clamped before hitting the store", func(t *testing.T) {
		repo := newFakeCompetitionRepo()
		svc := service.NewCompetitionService(repo)

		_, _, err := svc.ListPublic(context.Background(), service.ListCompetitionsQuery{Limit: 5000})

		require.NoError(t, err)
		assert.Equal(t, service.MaxPageSize, repo.lastQuery.Limit)
	})
}

func TestNormalizePage(t *testing.T) {
	skip, limit := service.NormalizePage(-1, 0)
	assert.Equal(t, 0, skip)
	assert.Equal(t, service.DefaultPageSize, limit)

	_, limit = service.NormalizePage(0, 5000)
	assert.Equal(t, service.MaxPageSize, limit)

	skip, limit = service.NormalizePage(20, 50)
	assert.Equal(t, 20, skip)
	assert.Equal(t, 50, limit)
}

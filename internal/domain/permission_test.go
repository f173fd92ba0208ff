package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sci-insight/sci-api/internal/domain"
)

func TestCanModify(t *testing.T) {
	comp := domain.Competition{ID: "c1", OwnerID: 7}

	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{
			name:  "anonymous is denied",
			actor: domain.Actor{},
			want:  false,
		},
		{
			name:  "admin may modify any record",
			actor: domain.Actor{ID: 1, Role: domain.RoleAdmin, IsActive: true},
			want:  true,
		},
		{
			name:  "owner may modify own record",
			actor: domain.Actor{ID: 7, Role: domain.RoleCreator, IsActive: true},
			want:  true,
		},
		{
			name:  "foreign creator is denied",
			actor: domain.Actor{ID: 8, Role: domain.RoleCreator, IsActive: true},
			want:  false,
		},
		{
			name:  "unknown role is denied even when id matches",
			actor: domain.Actor{ID: 7, Role: "viewer", IsActive: true},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanModify(tt.actor, comp))
			assert.Equal(t, tt.want, domain.CanDelete(tt.actor, comp))
		})
	}
}

func TestCanModerate(t *testing.T) {
	assert.True(t, domain.CanModerate(domain.Actor{ID: 1, Role: domain.RoleAdmin}))
	assert.False(t, domain.CanModerate(domain.Actor{ID: 2, Role: domain.RoleCreator}))
	assert.False(t, domain.CanModerate(domain.Actor{}))
}

func TestCanViewDetail(t *testing.T) {
	approved := domain.Competition{ID: "c1", OwnerID: 7, IsApproved: true}
	pending := domain.Competition{ID: "c2", OwnerID: 7}

	anonymous := domain.Actor{}
	owner := domain.Actor{ID: 7, Role: domain.RoleCreator, IsActive: true}
	stranger := domain.Actor{ID: 8, Role: domain.RoleCreator, IsActive: true}
	admin := domain.Actor{ID: 9, Role: domain.RoleAdmin, IsActive: true}

	assert.True(t, domain.CanViewDetail(anonymous, approved))
	assert.True(t, domain.CanViewDetail(stranger, approved))

	assert.False(t, domain.CanViewDetail(anonymous, pending))
	assert.False(t, domain.CanViewDetail(stranger, pending))
	assert.True(t, domain.CanViewDetail(owner, pending))
	assert.True(t, domain.CanViewDetail(admin, pending))
}

func TestCompetitionStatus(t *testing.T) {
	reason := "insufficient detail"

	assert.Equal(t, domain.StatusPending, domain.Competition{}.Status())
	assert.Equal(t, domain.StatusApproved, domain.Competition{IsApproved: true}.Status())
	assert.Equal(t, domain.StatusRejected, domain.Competition{RejectionReason: &reason}.Status())
}

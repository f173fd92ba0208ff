package request_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/request"
)

func validCreateRequest() request.CreateCompetitionRequest {
	return request.CreateCompetitionRequest{
		Title:                "International Chemistry Olympiad",
		Location:             "Geneva",
		Format:               "OFFLINE",
		Scale:                "INTERNATIONAL",
		RegistrationDeadline: time.Now().Add(60 * 24 * time.Hour),
	}
}

func TestCreateCompetitionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *request.CreateCompetitionRequest)
		wantErr bool
	}{
		{
			name:   "minimal valid request",
			mutate: func(req *request.CreateCompetitionRequest) {},
		},
		{
			name: "with optional fields",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Introduction = "A long-running competition."
				req.ExternalLink = "https://icho.example.org"
				req.ImageURLs = []string{"https://cdn.example.org/poster.png"}
			},
		},
		{
			name: "missing title",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Title = ""
			},
			wantErr: true,
		},
		{
			name: "missing location",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Location = ""
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Format = "VIRTUAL"
			},
			wantErr: true,
		},
		{
			name: "unknown scale",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Scale = "GALACTIC"
			},
			wantErr: true,
		},
		{
			name: "lowercase format is rejected",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.Format = "online"
			},
			wantErr: true,
		},
		{
			name: "missing deadline",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.RegistrationDeadline = time.Time{}
			},
			wantErr: true,
		},
		{
			name: "negative age bound",
			mutate: func(req *request.CreateCompetitionRequest) {
				age := -1
				req.TargetAgeMin = &age
			},
			wantErr: true,
		},
		{
			name: "malformed external link",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.ExternalLink = "not a url"
			},
			wantErr: true,
		},
		{
			name: "malformed image URL in list",
			mutate: func(req *request.CreateCompetitionRequest) {
				req.ImageURLs = []string{"https://ok.example.org/a.png", "::bad::"}
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			err := req.Validate()

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateCompetitionRequest_Validate(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		req := request.UpdateCompetitionRequest{}

		assert.NoError(t, req.Validate())
	})

	t.Run("present fields are still checked", func(t *testing.T) {
		badFormat := "VIRTUAL"
		req := request.UpdateCompetitionRequest{Format: &badFormat}

		assert.Error(t, req.Validate())
	})

	t.Run("empty title pointer is treated as absent", func(t *testing.T) {
		empty := ""
		req := request.UpdateCompetitionRequest{Title: &empty}

		// An empty pointer value is "not present" to the length rule, so this
		// passes request validation and is treated as no-op by the service.
		assert.NoError(t, req.Validate())
	})
}

func TestListCompetitionsRequest_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		req := request.ListCompetitionsRequest{}

		assert.NoError(t, req.Validate())
	})

	t.Run("negative skip is rejected", func(t *testing.T) {
		req := request.ListCompetitionsRequest{Skip: -1}

		assert.Error(t, req.Validate())
	})

	t.Run("unknown sort column is rejected", func(t *testing.T) {
		req := request.ListCompetitionsRequest{SortBy: "owner_id"}

		assert.Error(t, req.Validate())
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		req := request.ListCompetitionsRequest{Order: "sideways"}

		assert.Error(t, req.Validate())
	})
}

func TestRejectCompetitionRequest_Validate(t *testing.T) {
	req := request.RejectCompetitionRequest{}
	assert.Error(t, req.Validate())

	req.RejectionReason = "Listing duplicates an existing competition."
	assert.NoError(t, req.Validate())
}

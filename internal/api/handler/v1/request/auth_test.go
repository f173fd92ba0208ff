package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/request"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := request.SignupRequest{
		Email:           "marie@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Name:            "Marie",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(req *request.SignupRequest)
	}{
		{"bad email", func(req *request.SignupRequest) { req.Email = "not-an-email" }},
		{"too short password", func(req *request.SignupRequest) {
			req.Password = "pass1"
			req.ConfirmPassword = "pass1"
		}},
		{"password without digits", func(req *request.SignupRequest) {
			req.Password = "passwordpassword"
			req.ConfirmPassword = "passwordpassword"
		}},
		{"password without letters", func(req *request.SignupRequest) {
			req.Password = "1234567890"
			req.ConfirmPassword = "1234567890"
		}},
		{"confirm mismatch", func(req *request.SignupRequest) { req.ConfirmPassword = "password2" }},
		{"missing name", func(req *request.SignupRequest) { req.Name = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			assert.Error(t, req.Validate())
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := request.LoginRequest{Email: "marie@example.com", Password: "password1"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&request.LoginRequest{Email: "nope", Password: "password1"}).Validate())
	assert.Error(t, (&request.LoginRequest{Email: "marie@example.com"}).Validate())
}

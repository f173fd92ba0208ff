package response

import "github.com/sci-insight/sci-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ListUsersResponse uses the same pagination envelope as listings.
type ListUsersResponse struct {
	Items []domain.User `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

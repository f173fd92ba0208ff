package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the principal attached to a request. The zero Actor is anonymous.
type Actor struct {
	ID       uint
	Role     string
	IsActive bool
}

func (a Actor) IsAnonymous() bool {
	return a.ID == 0
}

func (u User) AsActor() Actor {
	return Actor{
		ID:       u.ID,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

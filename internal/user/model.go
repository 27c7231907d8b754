package user

import "context"

// User learner profile mirrored from the identity provider
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// DefaultDisplayName used for learners without a name
const DefaultDisplayName = "Student"

// DisplayName name printed on documents
func (u *User) DisplayName() string {
	if u.Name == "" {
		return DefaultDisplayName
	}
	return u.Name
}

type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*User, error)
}

type UserUseCase interface {
	Profile(ctx context.Context, id string) (*User, error)
}

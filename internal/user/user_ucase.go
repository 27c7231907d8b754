package user

import (
	"context"

	"github.com/pot-code/coursecert/internal/domain"
	"go.elastic.co/apm"
)

// UserUseCaseImpl ...
type UserUseCaseImpl struct {
	UserRepository UserRepository
}

var _ UserUseCase = &UserUseCaseImpl{}

// NewUserUseCase ...
func NewUserUseCase(
	UserRepository UserRepository,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		UserRepository: UserRepository,
	}
}

// Profile find user by id, domain.ErrUserNotFound if the identity provider never synced it
func (uu *UserUseCaseImpl) Profile(ctx context.Context, id string) (*User, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.Profile", "service")
	defer apmSpan.End()

	user, err := uu.UserRepository.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

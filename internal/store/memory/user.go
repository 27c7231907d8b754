package memory

import (
	"context"

	"github.com/pot-code/coursecert/internal/user"
)

type userRepository struct {
	db *userTable
}

// NewUserRepository user.UserRepository over db
func NewUserRepository(db *DB) user.UserRepository {
	return &userRepository{db: db.users}
}

func (r *userRepository) FindUserByID(ctx context.Context, id string) (*user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if u, ok := r.db.t[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

package user

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

type UserSQL struct {
	Conn driver.ITransactionalDB
}

var _ UserRepository = &UserSQL{}

func NewUserRepository(Conn driver.ITransactionalDB) *UserSQL {
	return &UserSQL{Conn}
}

// FindUserByID returns nil when no user matches
func (repo *UserSQL) FindUserByID(ctx context.Context, id string) (*User, error) {
	rows, err := repo.Conn.QueryContext(ctx, `SELECT id, name, email, role FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "find user"))
	}
	defer rows.Close()

	if rows.Next() {
		user := new(User)
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		return user, nil
	}
	return nil, domain.Unavailable(rows.Err())
}

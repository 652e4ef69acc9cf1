package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/user"
	"github.com/pujaripavansai28/LMS/storage/database"
)

const userColumns = "id, name, email, password_hash, role, verified, created_at"

// orderable user columns
var userOrderings = map[string]bool{
	"id":         true,
	"name":       true,
	"email":      true,
	"role":       true,
	"verified":   true,
	"created_at": true,
}

type userRepository struct {
	baseRepository
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{baseRepository{exec: exec}}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `INSERT INTO users (name, email, password_hash, role, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	err := get(ctx, repo.getExec(exec), &usr.ID, q,
		usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.Verified, usr.CreatedAt.UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int64, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	err := get(ctx, repo.getExec(exec), &usr, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	err := get(ctx, repo.getExec(exec), &usr, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by email")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(
	ctx context.Context,
	filter user.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]user.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		val := "%" + strings.ToLower(filter.Search) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, val, val)
	}
	if len(filter.Roles) > 0 {
		where = append(where, "role IN (?)")
		args = append(args, filter.Roles)
	}
	if filter.Verified != nil {
		where = append(where, "verified = ?")
		args = append(args, *filter.Verified)
	}

	q := "SELECT " + userColumns + " FROM users"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if userOrderings[ord.Field] {
			orderBy = append(orderBy, ord.String())
		}
	}
	orderBy = append(orderBy, "id ASC")
	q += " ORDER BY " + strings.Join(orderBy, ", ")

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "expanding user query")
	}
	users := make([]user.User, 0)
	if err = sel(ctx, repo.getExec(exec), &users, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, verified = ? WHERE id = ?`
	err := execOne(ctx, repo.getExec(exec), user.ErrNotFound, q,
		usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.Verified, usr.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		if core.IsNotFound(err) {
			return user.User{}, err
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), user.ErrNotFound, "DELETE FROM users WHERE id = ?", id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting user")
	}
	return err
}

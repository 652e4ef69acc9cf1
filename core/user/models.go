package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
)

// pwdHashCost matches the cost used by existing accounts.
const pwdHashCost = 10

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Role         auth.Role `db:"role" json:"role"`
	Verified     bool      `db:"verified" json:"verified"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), pwdHashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) Principal() auth.Principal {
	return auth.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string    `json:"name" form:"name" validate:"required,notblank,singleline"`
	Email    string    `json:"email" form:"email" validate:"required,email"`
	Password string    `json:"password" form:"password" validate:"required"`
	Role     auth.Role `json:"role" form:"role" validate:"required,lmsrole"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = auth.Role(core.CleanString(string(nu.Role), true /* lower */))
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty fields keep their current value.
type UpdateUser struct {
	Name     string    `json:"name"`
	Email    string    `json:"email" validate:"omitempty,email"`
	Role     auth.Role `json:"role" validate:"omitempty,lmsrole"`
	Verified *bool     `json:"verified"`
	Password string    `json:"password"`
}

func (uu *UpdateUser) Clean(orig User) {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = orig.Name
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = orig.Email
	}
	if role := core.CleanString(string(uu.Role), true /* lower */); role != "" {
		uu.Role = auth.Role(role)
	} else {
		uu.Role = orig.Role
	}
}

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type QueryFilter struct {
	Search   string      `query:"search"`
	Roles    []auth.Role `query:"role"`
	Verified *bool       `query:"verified"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user")
	ErrEmailExists        = core.NewConflictError("email", "Email already exists")
	ErrInvalidCredentials = core.NewAuthError(core.AuthInvalidCredentials, "Invalid credentials")
	ErrAdminSignup        = core.NewFieldError("role", "role must be one of instructor or student")
	ErrDeleteSelf         = core.NewForbiddenError("you cannot delete your own account")

	// operation gates
	adminOnly = auth.Require(auth.RoleAdmin)
	anyUser   = auth.Require()
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id int64, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		QueryUsers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUser(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Register creates an instructor or student account. Admin accounts come from Create or the admin CLI.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}
	if nu.Role == auth.RoleAdmin {
		return User{}, ErrAdminSignup
	}
	return svc.create(ctx, nu)
}

// Authenticate returns the User matching the credentials.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	creds.Email = core.CleanString(creds.Email, true /* lower */)
	if err := svc.validate.Struct(creds); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) Me(ctx context.Context, p auth.Principal) (User, error) {
	if err := anyUser.Check(p); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, p.ID)
}

// Admin operations

func (svc *Service) Create(ctx context.Context, p auth.Principal, nu NewUser) (User, error) {
	if err := adminOnly.Check(p); err != nil {
		return User{}, err
	}
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}
	return svc.create(ctx, nu)
}

func (svc *Service) Query(ctx context.Context, p auth.Principal, filter QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	if err := adminOnly.Check(p); err != nil {
		return nil, err
	}
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, p auth.Principal, id int64) (User, error) {
	if err := adminOnly.Check(p); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, p auth.Principal, id int64, uu UpdateUser) (User, error) {
	if err := adminOnly.Check(p); err != nil {
		return User{}, err
	}
	orig, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	uu.Clean(orig)
	if err = svc.validate.Struct(uu); err != nil {
		return User{}, err
	}

	usr := orig
	usr.Name = uu.Name
	usr.Email = uu.Email
	usr.Role = uu.Role
	if uu.Verified != nil {
		usr.Verified = *uu.Verified
	}
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if err := adminOnly.Check(p); err != nil {
		return err
	}
	// Say No to Suicide! an admin cannot delete themselves
	if id == p.ID {
		return ErrDeleteSelf
	}
	return svc.repo.DeleteUser(ctx, id)
}

// SetPassword resets a password without policy checks; used by the admin CLI.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

// EnsureAdmin creates an admin account unless the email is already taken.
// The returned bool reports whether an account was created.
func (svc *Service) EnsureAdmin(ctx context.Context, name, email, pwd string) (User, bool, error) {
	nu := NewUser{Name: name, Email: email, Password: pwd, Role: auth.RoleAdmin}
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, false, err
	}
	if usr, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return usr, false, nil
	} else if !core.IsNotFound(err) {
		return User{}, false, errors.Wrap(err, "finding user by email")
	}
	usr, err := svc.create(ctx, nu)
	if err != nil {
		return User{}, false, err
	}
	return usr, true, nil
}

func (svc *Service) create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		Verified:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

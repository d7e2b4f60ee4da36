// Package account implements registration and login.  The HTTP layer
// binds request bodies and issues tokens; this package owns the
// validation rules, the uniqueness checks and the password comparison.
package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// ErrPasswordMismatch is returned at registration when the repeated
// password does not match.  No user is persisted in that case.
var ErrPasswordMismatch = errors.New("passwords differ")

// ErrAccountExists is returned at registration when the email (or
// phone) is already registered.  It is distinct from validation errors
// so callers can render a different message.
var ErrAccountExists = errors.New("account already exists")

// ErrBadCredentials is returned at login on a wrong password.  A wrong
// email surfaces as repository.ErrUserNotFound; the stages are distinct
// on purpose.
var ErrBadCredentials = errors.New("bad credentials")

// phonePattern matches the accepted phone format: "+" followed by
// exactly 11 digits.
var phonePattern = regexp.MustCompile(`^\+\d{11}$`)

// ValidationError lists the fields that failed structural validation.
// Callers re-prompt with the same input echoed back.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// UserStore is the slice of the user repository the service needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Service performs account operations against a user store.
type Service struct {
	users      UserStore
	bcryptCost int
}

// NewService wires the account service.  bcryptCost is forwarded to the
// password hasher.
func NewService(users UserStore, bcryptCost int) *Service {
	if users == nil {
		panic("nil user store passed to NewService")
	}
	return &Service{users: users, bcryptCost: bcryptCost}
}

// RegisterInput is the candidate user plus the repeated password.
type RegisterInput struct {
	Username   string
	Email      string
	Phone      string
	Password   string
	RePassword string
}

// Register validates the candidate, checks uniqueness and persists the
// new user.  Checks run in a fixed order: structural validation, then
// password equality, then the existing-account lookup.  The returned
// user carries the assigned ID and the hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	var bad []string
	if in.Username == "" {
		bad = append(bad, "username")
	}
	if in.Email == "" {
		bad = append(bad, "email")
	}
	if !phonePattern.MatchString(in.Phone) {
		bad = append(bad, "phone")
	}
	if in.Password == "" {
		bad = append(bad, "password")
	}
	if len(bad) > 0 {
		return model.User{}, &ValidationError{Fields: bad}
	}
	if in.Password != in.RePassword {
		return model.User{}, ErrPasswordMismatch
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return model.User{}, ErrAccountExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         "CUSTOMER",
	}
	if err := s.users.Create(ctx, &u); err != nil {
		// The unique index can still fire between the lookup and the
		// insert; report it the same way as the lookup hit.
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrPhoneExists) {
			return model.User{}, ErrAccountExists
		}
		return model.User{}, err
	}
	return u, nil
}

// Login verifies credentials and returns the matched user.  The caller
// is responsible for marking the session authenticated (issuing
// tokens).
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrBadCredentials
	}
	return u, nil
}

// UserByID loads a user by primary key.  Used when re-issuing tokens
// from a refresh token, which only carries the user id.
func (s *Service) UserByID(ctx context.Context, id uint64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/cryptox"
	"github.com/astroline/identity/pkg/idx"
)

// Registration field messages. Collected in a fixed order so clients see a
// stable list.
const (
	msgEmailTaken    = "A user with the given email already exists."
	msgUsernameTaken = "A user with the given username already exists."
	msgBadDate       = `date_of_birth field must contain a valid Date in format "YYYY-MM-DD".`
	msgBadTOS        = `accept_tos field must be either "TRUE" or "FALSE".`
)

// RegisterInput carries the raw registration fields. AcceptTOS stays a string
// because the wire contract demands the literal "TRUE" or "FALSE".
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DateOfBirth string
	AcceptTOS   string
}

// RegisterService creates subjects. Validation reports every problem in one
// ordered list rather than bailing at the first.
type RegisterService struct {
	Store store.Store

	Now func() time.Time
}

func (s *RegisterService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register verifies the input fields, enforces the password policy and
// inserts the subject. Field problems come back as *FieldErrors; policy
// problems as *PolicyError.
func (s *RegisterService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	var created domain.User

	// Uniqueness probes and the insert share one transaction so a racing
	// duplicate registration still resolves to a field error.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		fieldErrs, err := s.verify(ctx, tx, in)
		if err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			return &FieldErrors{Errors: fieldErrs}
		}

		if err := ValidatePasswordPolicy(in.Password); err != nil {
			return err
		}

		hash, err := cryptox.HashPassword(in.Password)
		if err != nil {
			return err
		}

		now := s.now().UTC().Truncate(time.Second)
		created = domain.User{
			ID:                 idx.New().String(),
			Email:              in.Email,
			Username:           in.Username,
			PasswordHash:       hash,
			DateOfBirth:        in.DateOfBirth,
			AcceptTOS:          in.AcceptTOS == "TRUE",
			Active:             true,
			LastPasswordChange: now,
		}

		if err := tx.Users().CreateUser(ctx, created); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return &FieldErrors{Errors: []string{msgEmailTaken}}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	return created, nil
}

// verify mirrors the registration verifier's fixed check order: presence of
// each field, date validity, uniqueness, then the accept_tos literal.
func (s *RegisterService) verify(ctx context.Context, tx store.Tx, in RegisterInput) ([]string, error) {
	var errs []string

	present := func(key, value string) bool {
		if value == "" {
			errs = append(errs, key+" field must not be empty.")
			return false
		}
		return true
	}

	hasEmail := present("email", in.Email)
	hasUsername := present("username", in.Username)
	present("password", in.Password)
	hasDOB := present("date_of_birth", in.DateOfBirth)
	hasTOS := present("accept_tos", in.AcceptTOS)

	if hasDOB {
		if _, err := time.Parse("2006-01-02", in.DateOfBirth); err != nil {
			errs = append(errs, msgBadDate)
		}
	}

	if hasEmail {
		exists, err := tx.Users().EmailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			errs = append(errs, msgEmailTaken)
		}
	}

	if hasUsername {
		exists, err := tx.Users().UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			errs = append(errs, msgUsernameTaken)
		}
	}

	if hasTOS && in.AcceptTOS != "TRUE" && in.AcceptTOS != "FALSE" {
		errs = append(errs, msgBadTOS)
	}

	return errs, nil
}

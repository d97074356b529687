package kartoteka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile is a client's personal contact and identity details. One row
// exists per email. Id and UserId are assigned at registration (owned by
// another subsystem) and are never mutated here.
type Profile struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FirstName  string
	LastName   string
	MiddleName string
	Email      string
	Phone      string
	BirthDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfileUpdate carries a partial update. Nil field means "leave unchanged".
type ProfileUpdate struct {
	FirstName  *string
	LastName   *string
	MiddleName *string
	Email      *string
	Phone      *string
	BirthDate  *time.Time
}

type ProfileNotFoundError struct {
	Email string
}

func (e ProfileNotFoundError) Error() string {
	return "profile not found with email: " + e.Email
}

type EmailTakenError struct {
	Email string
}

func (e EmailTakenError) Error() string {
	return "email already in use: " + e.Email
}

type ProfileStore interface {
	// ByEmail returns the profile owning given email
	// or ProfileNotFoundError.
	ByEmail(ctx context.Context, email string) (Profile, error)
	// Upsert persists the profile keyed by its Id: inserts when absent,
	// overwrites mutable columns when present. Email uniqueness violation
	// is reported as EmailTakenError.
	Upsert(ctx context.Context, profile Profile) error
}

type ProfileService struct {
	Store ProfileStore
}

func (s *ProfileService) ByEmail(ctx context.Context, email string) (Profile, error) {
	return s.Store.ByEmail(ctx, email)
}

// Update applies non-nil fields of update to the profile owning email and
// stamps UpdatedAt, even when no field is present. When update moves the
// profile to a different email, the new email must not be owned by another
// profile.
func (s *ProfileService) Update(ctx context.Context, email string, update ProfileUpdate) (Profile, error) {
	profile, err := s.Store.ByEmail(ctx, email)
	if err != nil {
		return Profile{}, err
	}

	if update.Email != nil && *update.Email != profile.Email {
		// Cleaner error than a raw constraint violation. The store still
		// maps the unique violation for writers racing this check.
		_, err := s.Store.ByEmail(ctx, *update.Email)
		if err == nil {
			return Profile{}, EmailTakenError{Email: *update.Email}
		}
		var notFound ProfileNotFoundError
		if !errors.As(err, &notFound) {
			return Profile{}, fmt.Errorf("check new email owner: %w", err)
		}
		profile.Email = *update.Email
	}
	if update.Phone != nil {
		profile.Phone = *update.Phone
	}
	if update.BirthDate != nil {
		profile.BirthDate = *update.BirthDate
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		profile.LastName = *update.LastName
	}
	if update.MiddleName != nil {
		profile.MiddleName = *update.MiddleName
	}
	profile.UpdatedAt = time.Now()

	err = s.Store.Upsert(ctx, profile)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/softala/kartoteka"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolationCode = "23505"

type Profile struct {
	bun.BaseModel `bun:"table:client_profiles,alias:profile"`

	Id         uuid.UUID `bun:"id,pk,type:uuid"`
	UserId     uuid.UUID `bun:"user_id,notnull,type:uuid"`
	FirstName  string    `bun:"first_name,nullzero"`
	LastName   string    `bun:"last_name,nullzero"`
	MiddleName string    `bun:"middle_name,nullzero"`
	Email      string    `bun:"email,notnull,unique"`
	Phone      string    `bun:"phone,notnull"`
	BirthDate  time.Time `bun:"birth_date,notnull,type:date"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func (p Profile) ToDomain() kartoteka.Profile {
	return kartoteka.Profile{
		Id:         p.Id,
		UserId:     p.UserId,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MiddleName: p.MiddleName,
		Email:      p.Email,
		Phone:      p.Phone,
		BirthDate:  p.BirthDate,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func profileFromDomain(p kartoteka.Profile) *Profile {
	return &Profile{
		Id:         p.Id,
		UserId:     p.UserId,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MiddleName: p.MiddleName,
		Email:      p.Email,
		Phone:      p.Phone,
		BirthDate:  p.BirthDate,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type ProfileStore struct {
	DB *bun.DB
}

var _ kartoteka.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) ByEmail(ctx context.Context, email string) (kartoteka.Profile, error) {
	profile := new(Profile)
	err := s.DB.NewSelect().
		Model(profile).
		Where(`email=?`, email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kartoteka.Profile{}, kartoteka.ProfileNotFoundError{Email: email}
		}
		return kartoteka.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return profile.ToDomain(), nil
}

// created_at is deliberately absent from the conflict set. It is written once
// on the insert branch and never moves again.
func (s *ProfileStore) Upsert(ctx context.Context, profile kartoteka.Profile) error {
	_, err := s.DB.NewInsert().
		Model(profileFromDomain(profile)).
		On(`CONFLICT (id) DO UPDATE SET ` +
			`first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, ` +
			`middle_name=EXCLUDED.middle_name, email=EXCLUDED.email, ` +
			`phone=EXCLUDED.phone, birth_date=EXCLUDED.birth_date, ` +
			`updated_at=EXCLUDED.updated_at`).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() &&
			pgErr.Field('C') == uniqueViolationCode {
			return kartoteka.EmailTakenError{Email: profile.Email}
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

package kartoteka_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/softala/kartoteka"
	"github.com/softala/kartoteka/inmem"
	"github.com/softala/kartoteka/mock"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func seedProfile(t *testing.T, store kartoteka.ProfileStore) kartoteka.Profile {
	t.Helper()
	createdAt := time.Now().Add(-time.Hour)
	profile := kartoteka.Profile{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		FirstName: "Ann",
		Email:     "a@x.com",
		Phone:     "111",
		BirthDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	err := store.Upsert(context.Background(), profile)
	assert.NoError(t, err)
	return profile
}

func TestProfileServiceByEmail(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seeded := seedProfile(t, store)

	profile, err := service.ByEmail(ctx, "a@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(seeded, profile)
}

func TestProfileServiceByEmailNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	service := &kartoteka.ProfileService{Store: mock.ProfileStore{
		ByEmailFn: func(ctx context.Context, email string) (kartoteka.Profile, error) {
			return kartoteka.Profile{}, kartoteka.ProfileNotFoundError{Email: email}
		},
		UpsertFn: func(ctx context.Context, profile kartoteka.Profile) error {
			t.Fatal("lookup must not write")
			return nil
		},
	}}

	_, err := service.ByEmail(ctx, "missing@x.com")
	var notFound kartoteka.ProfileNotFoundError
	if !assert.ErrorAs(err, &notFound) {
		return
	}
	assert.Equal("missing@x.com", notFound.Email)
}

func TestProfileServiceUpdatePartial(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seeded := seedProfile(t, store)

	updated, err := service.Update(ctx, "a@x.com", kartoteka.ProfileUpdate{
		Phone: strPtr("222"),
	})
	if !assert.NoError(err) {
		return
	}

	assert.Equal("222", updated.Phone)
	assert.Equal(seeded.FirstName, updated.FirstName)
	assert.Equal(seeded.LastName, updated.LastName)
	assert.Equal(seeded.MiddleName, updated.MiddleName)
	assert.Equal(seeded.Email, updated.Email)
	assert.Equal(seeded.BirthDate, updated.BirthDate)
	assert.Equal(seeded.Id, updated.Id)
	assert.Equal(seeded.UserId, updated.UserId)
	assert.Equal(seeded.CreatedAt, updated.CreatedAt)
	assert.True(updated.UpdatedAt.After(seeded.UpdatedAt))

	stored, err := store.ByEmail(ctx, "a@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(updated, stored)
}

func TestProfileServiceUpdateEmptyStampsUpdatedAt(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seeded := seedProfile(t, store)

	updated, err := service.Update(ctx, "a@x.com", kartoteka.ProfileUpdate{})
	if !assert.NoError(err) {
		return
	}
	assert.True(updated.UpdatedAt.After(seeded.UpdatedAt))

	updated.UpdatedAt = seeded.UpdatedAt
	assert.Equal(seeded, updated)
}

func TestProfileServiceUpdateIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seedProfile(t, store)

	update := kartoteka.ProfileUpdate{
		FirstName:  strPtr("Anna"),
		LastName:   strPtr("Kowalska"),
		MiddleName: strPtr("Maria"),
		Email:      strPtr("anna@x.com"),
		Phone:      strPtr("333"),
		BirthDate:  timePtr(time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}

	first, err := service.Update(ctx, "a@x.com", update)
	if !assert.NoError(err) {
		return
	}
	second, err := service.Update(ctx, "anna@x.com", update)
	if !assert.NoError(err) {
		return
	}

	first.UpdatedAt = second.UpdatedAt
	assert.Equal(first, second)
}

func TestProfileServiceUpdateNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}

	_, err := service.Update(ctx, "missing@x.com", kartoteka.ProfileUpdate{Phone: strPtr("222")})
	var notFound kartoteka.ProfileNotFoundError
	if !assert.ErrorAs(err, &notFound) {
		return
	}
	assert.Equal("missing@x.com", notFound.Email)
}

func TestProfileServiceUpdateEmailTaken(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seeded := seedProfile(t, store)

	other := seeded
	other.Id = uuid.New()
	other.UserId = uuid.New()
	other.Email = "b@x.com"
	if !assert.NoError(store.Upsert(ctx, other)) {
		return
	}

	_, err := service.Update(ctx, "a@x.com", kartoteka.ProfileUpdate{Email: strPtr("b@x.com")})
	var taken kartoteka.EmailTakenError
	if !assert.ErrorAs(err, &taken) {
		return
	}
	assert.Equal("b@x.com", taken.Email)

	// losing request persisted nothing
	stored, err := store.ByEmail(ctx, "a@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(seeded, stored)
}

func TestProfileServiceUpdateEmailMove(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewProfileStore()
	service := &kartoteka.ProfileService{Store: store}
	seedProfile(t, store)

	updated, err := service.Update(ctx, "a@x.com", kartoteka.ProfileUpdate{Email: strPtr("new@x.com")})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("new@x.com", updated.Email)

	_, err = store.ByEmail(ctx, "a@x.com")
	assert.Error(err)
	stored, err := store.ByEmail(ctx, "new@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(updated, stored)
}

func TestNewProfileView(t *testing.T) {
	assert := assert.New(t)

	profile := kartoteka.Profile{
		Id:         uuid.New(),
		UserId:     uuid.New(),
		FirstName:  "Ann",
		LastName:   "Kowalska",
		MiddleName: "Maria",
		Email:      "a@x.com",
		Phone:      "111",
		BirthDate:  time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2024, time.May, 1, 10, 15, 30, 0, time.UTC),
		UpdatedAt:  time.Date(2024, time.May, 2, 11, 16, 31, 0, time.UTC),
	}

	view := kartoteka.NewProfileView(profile)
	assert.Equal(profile.Id, view.Id)
	assert.Equal(profile.UserId, view.UserId)
	assert.Equal(profile.FirstName, view.FirstName)
	assert.Equal(profile.LastName, view.LastName)
	assert.Equal(profile.MiddleName, view.MiddleName)
	assert.Equal(profile.Email, view.Email)
	assert.Equal(profile.Phone, view.Phone)
	assert.Equal(profile.BirthDate, view.BirthDate.Time)
	assert.Equal(profile.CreatedAt, view.CreatedAt.Time)
	assert.Equal(profile.UpdatedAt, view.UpdatedAt.Time)
}

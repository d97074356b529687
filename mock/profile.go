package mock

import (
	"context"

	"github.com/softala/kartoteka"
)

type ProfileStore struct {
	ByEmailFn func(ctx context.Context, email string) (kartoteka.Profile, error)
	UpsertFn  func(ctx context.Context, profile kartoteka.Profile) error
}

func (s ProfileStore) ByEmail(ctx context.Context, email string) (kartoteka.Profile, error) {
	return s.ByEmailFn(ctx, email)
}

func (s ProfileStore) Upsert(ctx context.Context, profile kartoteka.Profile) error {
	return s.UpsertFn(ctx, profile)
}

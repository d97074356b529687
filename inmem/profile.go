package inmem

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/softala/kartoteka"
)

type ProfileStore struct {
	profiles map[uuid.UUID]kartoteka.Profile
	mutex    sync.RWMutex
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: map[uuid.UUID]kartoteka.Profile{},
		mutex:    sync.RWMutex{},
	}
}

var _ kartoteka.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) ByEmail(ctx context.Context, email string) (kartoteka.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return kartoteka.Profile{}, kartoteka.ProfileNotFoundError{Email: email}
}

func (s *ProfileStore) Upsert(ctx context.Context, profile kartoteka.Profile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, p := range s.profiles {
		if p.Email == profile.Email && p.Id != profile.Id {
			return kartoteka.EmailTakenError{Email: profile.Email}
		}
	}
	s.profiles[profile.Id] = profile
	return nil
}

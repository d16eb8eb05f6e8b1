package service

import (
	"context"
	"time"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/repository/contract"
	"ai-chat-sync/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IProfileService interface {
	// Profile returns the profile for a user id, or nil when none exists.
	Profile(ctx context.Context, userId uuid.UUID) (*entity.Profile, error)
	// Invalidate drops a cached profile, e.g. after a profile change event.
	Invalidate(userId uuid.UUID)
	// Flush drops every cached profile. Called on session change.
	Flush()
}

// profileService fronts the profile table with a TTL cache so display-name
// enrichment does not hit the remote store for every chat event.
type profileService struct {
	repo  contract.ProfileRepository
	cache *cache.Cache
}

func NewProfileService(repo contract.ProfileRepository, ttl time.Duration) IProfileService {
	return &profileService{
		repo:  repo,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *profileService) Profile(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	key := userId.String()
	if x, found := s.cache.Get(key); found {
		return x.(*entity.Profile), nil
	}

	profile, err := s.repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if profile != nil {
		s.cache.Set(key, profile, cache.DefaultExpiration)
	}
	return profile, nil
}

func (s *profileService) Invalidate(userId uuid.UUID) {
	s.cache.Delete(userId.String())
}

func (s *profileService) Flush() {
	s.cache.Flush()
}

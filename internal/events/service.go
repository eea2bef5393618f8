package events

import (
	"context"
	"fmt"
	"time"

	"ticketly/pkg/cache"

	"github.com/google/uuid"
)

// Service interface defines the read side of the inventory ledger
type Service interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error)
	GetAvailability(ctx context.Context, eventID uuid.UUID) (*AvailabilityResponse, error)

	// InvalidateAvailability drops the cached availability view after a
	// ledger mutation. Safe to call with caching disabled.
	InvalidateAvailability(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
}

// NewService creates a new inventory ledger service. cacheService may be nil,
// in which case every availability read goes to the store.
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func availabilityCacheKey(eventID uuid.UUID) string {
	return fmt.Sprintf("ticketly:availability:%s", eventID)
}

func (s *service) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	return s.repo.GetEventByID(ctx, eventID)
}

func (s *service) GetAvailability(ctx context.Context, eventID uuid.UUID) (*AvailabilityResponse, error) {
	if s.cache == nil {
		event, err := s.repo.GetEventByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		availability := event.ToAvailability()
		return &availability, nil
	}

	var availability AvailabilityResponse
	err := s.cache.GetOrSet(ctx, availabilityCacheKey(eventID), s.cacheTTL, func() (interface{}, error) {
		event, err := s.repo.GetEventByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return event.ToAvailability(), nil
	}, &availability)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (s *service) InvalidateAvailability(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	// Best effort: a stale availability view self-heals when the TTL expires.
	_ = s.cache.Delete(ctx, availabilityCacheKey(eventID))
}

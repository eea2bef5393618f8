package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ticketly/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockRepository) CreateEvent(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepository) UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// memoryCache implements cache.Service with a plain map, enough to observe
// cache-aside behavior without Redis.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func publishedEvent() *Event {
	return &Event{
		ID:             uuid.New(),
		Name:           "Go Conference",
		DateTime:       time.Now().Add(72 * time.Hour),
		Capacity:       200,
		AvailableSeats: 150,
		Price:          99.0,
		Status:         StatusPublished,
	}
}

func TestGetAvailability_NoCacheReadsStore(t *testing.T) {
	event := publishedEvent()
	repo := &MockRepository{}
	repo.On("GetEventByID", mock.Anything, event.ID).Return(event, nil).Twice()

	svc := NewService(repo, nil, time.Minute)

	for i := 0; i < 2; i++ {
		availability, err := svc.GetAvailability(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, 150, availability.AvailableSeats)
	}

	repo.AssertExpectations(t)
}

func TestGetAvailability_CachedReadSkipsStore(t *testing.T) {
	event := publishedEvent()
	repo := &MockRepository{}
	repo.On("GetEventByID", mock.Anything, event.ID).Return(event, nil).Once()

	svc := NewService(repo, newMemoryCache(), time.Minute)

	for i := 0; i < 3; i++ {
		availability, err := svc.GetAvailability(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID.String(), availability.EventID)
		assert.Equal(t, 150, availability.AvailableSeats)
	}

	repo.AssertExpectations(t)
}

func TestInvalidateAvailability_ForcesRefetch(t *testing.T) {
	event := publishedEvent()
	repo := &MockRepository{}
	repo.On("GetEventByID", mock.Anything, event.ID).Return(event, nil)

	svc := NewService(repo, newMemoryCache(), time.Minute)

	_, err := svc.GetAvailability(context.Background(), event.ID)
	require.NoError(t, err)

	// A ledger mutation drops the cached view; the next read sees fresh data.
	event.AvailableSeats = 140
	svc.InvalidateAvailability(context.Background(), event.ID)

	availability, err := svc.GetAvailability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 140, availability.AvailableSeats)

	repo.AssertNumberOfCalls(t, "GetEventByID", 2)
}

func TestGetAvailability_UnknownEvent(t *testing.T) {
	repo := &MockRepository{}
	eventID := uuid.New()
	repo.On("GetEventByID", mock.Anything, eventID).Return(nil, ErrEventNotFound)

	svc := NewService(repo, newMemoryCache(), time.Minute)
	_, err := svc.GetAvailability(context.Background(), eventID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

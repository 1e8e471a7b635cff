package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"artfolio-backend/internal/domains/content"
)

// memoryRepository mimics the postgres repository's CAS semantics closely
// enough for service tests: conditional update on version, unique published
// URLs, stored documents detached from caller-held pointers.
type memoryRepository struct {
	mu     sync.Mutex
	states map[uuid.UUID]*content.ContentState
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{states: make(map[uuid.UUID]*content.ContentState)}
}

func cloneState(s *content.ContentState) *content.ContentState {
	data, _ := json.Marshal(s)
	var out content.ContentState
	_ = json.Unmarshal(data, &out)
	return &out
}

func (r *memoryRepository) GetByArtist(_ context.Context, artistID uuid.UUID) (*content.ContentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.states[artistID]
	if !ok {
		return nil, nil
	}
	return cloneState(s), nil
}

func (r *memoryRepository) Create(_ context.Context, state *content.ContentState) (*content.ContentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneState(state)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.states[state.ArtistID] = stored
	return cloneState(stored), nil
}

func (r *memoryRepository) UpdateWithVersion(_ context.Context, state *content.ContentState, expectedVersion int64) (*content.ContentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.states[state.ArtistID]
	if !ok {
		return nil, content.NewNotFound()
	}
	if current.Version != expectedVersion {
		return nil, content.NewVersionConflict(current.Version)
	}

	if state.PublishedURL != nil {
		for id, other := range r.states {
			if id == state.ArtistID || other.PublishedURL == nil {
				continue
			}
			if *other.PublishedURL == *state.PublishedURL {
				return nil, content.NewSlugTaken(*state.PublishedURL)
			}
		}
	}

	stored := cloneState(state)
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = time.Now()
	r.states[state.ArtistID] = stored
	return cloneState(stored), nil
}

func (r *memoryRepository) ResetVersion(_ context.Context, state *content.ContentState) (*content.ContentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[state.ArtistID]; !ok {
		return nil, content.NewNotFound()
	}

	stored := cloneState(state)
	stored.Version = 1
	stored.UpdatedAt = time.Now()
	r.states[state.ArtistID] = stored
	return cloneState(stored), nil
}

// memoryArtifacts is an in-memory content.ArtifactStore with switchable
// failure modes.
type memoryArtifacts struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{objects: make(map[string][]byte)}
}

func (a *memoryArtifacts) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failPut {
		return "", errors.New("artifact store unavailable")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.objects[key] = cp
	return "memory://" + key, nil
}

func (a *memoryArtifacts) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return data, nil
}

func (a *memoryArtifacts) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.objects, key)
	return nil
}

// memoryCache implements cache.Cache without a Redis server.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

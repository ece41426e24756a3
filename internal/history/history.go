// package history keeps short, de-duplicated, most-recent-first lists of things the user has
// recently used, persisted through a key/value [Storage].
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
)

// DefaultLimit is the number of entries each list keeps.
const DefaultLimit = 5

// Storage keys. The version suffix changes whenever the stored shape does.
const (
	PlaylistKey = "spotify_playlist_history_v2"
	UserKey     = "spotify_user_history_v2"
	SearchKey   = "spotify_profile_search_history_v1"
)

// Storage persists opaque values by key.
//
// Read returns nil data and a nil error when nothing is stored under key.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Clear(key string) error
}

// Store is a capped list of T, unique by [models.Keyed.Key], most recent first.
type Store[T models.Keyed] struct {
	mu      sync.Mutex
	storage Storage
	key     string
	limit   int
	items   []T
	logger  *log.Logger
}

// Option configures a [Store].
type Option func(*options)

type options struct {
	limit  int
	logger *log.Logger
}

// WithLimit overrides [DefaultLimit]. Non-positive values are ignored.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithLogger sets the logger used to report unreadable stored entries.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New loads the list stored under key. A missing or unreadable entry loads as empty.
func New[T models.Keyed](storage Storage, key string, opts ...Option) *Store[T] {
	o := options{limit: DefaultLimit, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T]{storage: storage, key: key, limit: o.limit, logger: o.logger}
	s.items = s.load()
	return s
}

func (s *Store[T]) load() []T {
	data, err := s.storage.Read(s.key)
	if err != nil {
		s.logger.Warn("failed to read history", "key", s.key, "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding corrupt history", "key", s.key, "error", err)
		return nil
	}
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	return items
}

// Items returns a copy of the list, most recent first.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len reports the number of entries.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Push puts item at the front, dropping any entry with the same key and anything past the limit.
func (s *Store[T]) Push(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.Key()
	next := make([]T, 0, s.limit)
	next = append(next, item)
	for _, existing := range s.items {
		if len(next) == s.limit {
			break
		}
		if existing.Key() != key {
			next = append(next, existing)
		}
	}
	return s.save(next)
}

// Remove drops the entry with the given key. Unknown keys are a no-op.
func (s *Store[T]) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.items), func(i T) bool { return i.Key() == key })
	if len(next) == len(s.items) {
		return nil
	}
	return s.save(next)
}

// Clear empties the list and its stored entry.
func (s *Store[T]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Clear(s.key); err != nil {
		return fmt.Errorf("failed to clear history %s: %w", s.key, err)
	}
	s.items = nil
	return nil
}

func (s *Store[T]) save(items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode history %s: %w", s.key, err)
	}
	if err := s.storage.Write(s.key, data); err != nil {
		return fmt.Errorf("failed to write history %s: %w", s.key, err)
	}
	s.items = items
	return nil
}

// Set bundles the three lists the client keeps.
type Set struct {
	Playlists *Store[models.PlaylistHistoryItem]
	Users     *Store[models.UserHistoryItem]
	Searches  *Store[models.SearchHistoryItem]
}

// NewSet loads every list from storage.
func NewSet(storage Storage, opts ...Option) *Set {
	return &Set{
		Playlists: New[models.PlaylistHistoryItem](storage, PlaylistKey, opts...),
		Users:     New[models.UserHistoryItem](storage, UserKey, opts...),
		Searches:  New[models.SearchHistoryItem](storage, SearchKey, opts...),
	}
}

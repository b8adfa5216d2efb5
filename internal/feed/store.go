// Package feed keeps the capacity-bounded, newest-first list of generated
// posts and persists it after every change.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/storage"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
)

// Field is the blob field the feed is stored under.
const Field = "posts"

// DefaultMaxPosts is the feed capacity when none is configured.
const DefaultMaxPosts = 20

// Store is the feed. Every mutation is applied in memory first and then
// persisted; the in-memory feed stays authoritative when persistence fails.
type Store struct {
	ns       *storage.Namespace
	maxPosts int
	logger   *pterm.Logger

	mu    sync.Mutex
	posts []post.Post
}

// NewStore returns an empty feed over ns. Call Load to read persisted posts.
func NewStore(ns *storage.Namespace, maxPosts int, logger *pterm.Logger) *Store {
	if maxPosts < 1 {
		maxPosts = DefaultMaxPosts
	}
	if logger == nil {
		logger = &pterm.DefaultLogger
	}
	return &Store{ns: ns, maxPosts: maxPosts, logger: logger, posts: []post.Post{}}
}

// MaxPosts returns the feed capacity.
func (s *Store) MaxPosts() int { return s.maxPosts }

// Load replaces the in-memory feed with the persisted one. Missing data gives
// an empty feed; malformed data gives an empty feed and resets the stored
// value. Load never fails.
func (s *Store) Load(ctx context.Context) []post.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = s.read(ctx)
	if len(s.posts) > s.maxPosts {
		s.posts = s.posts[:s.maxPosts]
	}
	return slices.Clone(s.posts)
}

func (s *Store) read(ctx context.Context) []post.Post {
	raw, err := s.ns.Field(ctx, Field)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return []post.Post{}
	case errors.Is(err, storage.ErrUnavailable):
		s.logger.Debug("feed storage unavailable, starting with an empty feed", s.logger.Args("error", err.Error()))
		return []post.Post{}
	case errors.Is(err, storage.ErrMalformed):
		s.reset(ctx, err)
		return []post.Post{}
	default:
		s.logger.Warn("could not read feed, starting empty", s.logger.Args("error", err.Error()))
		return []post.Post{}
	}

	var posts []post.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		s.reset(ctx, err)
		return []post.Post{}
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return posts
}

func (s *Store) reset(ctx context.Context, cause error) {
	s.logger.Warn("stored feed is malformed, resetting it", s.logger.Args("error", cause.Error()))
	if err := s.ns.SetField(ctx, Field, []post.Post{}); err != nil && !errors.Is(err, storage.ErrUnavailable) {
		s.logger.Error("failed to reset stored feed", s.logger.Args("error", err.Error()))
	}
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []post.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

// Get returns the post with id.
func (s *Store) Get(id string) (post.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.posts, func(p post.Post) bool { return p.ID == id })
}

// InsertFront prepends p and drops the oldest posts beyond capacity.
func (s *Store) InsertFront(ctx context.Context, p post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]post.Post, 0, min(len(s.posts)+1, s.maxPosts))
	next = append(next, p)
	next = append(next, s.posts[:min(len(s.posts), s.maxPosts-1)]...)
	s.posts = next
	return s.persist(ctx)
}

// RemoveByID deletes the post with id. It reports whether a post was removed;
// nothing is persisted when it was not.
func (s *Store) RemoveByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.posts, func(p post.Post) bool { return p.ID == id })
	if !ok {
		return false, nil
	}
	s.posts = slices.Delete(slices.Clone(s.posts), idx, idx+1)
	return true, s.persist(ctx)
}

// Clear empties the feed. Callers must confirm with the user first.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = []post.Post{}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	err := s.ns.SetField(ctx, Field, s.posts)
	if errors.Is(err, storage.ErrUnavailable) {
		s.logger.Debug("feed storage unavailable, change kept in memory", s.logger.Args("error", err.Error()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to persist feed: %w", err)
	}
	return nil
}

package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/storage"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "characterSocialPostGenerator"

func quietLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(&bytes.Buffer{})
}

func newPost(i int) post.Post {
	return post.Post{
		ID:               fmt.Sprintf("id-%02d", i),
		Content:          fmt.Sprintf("post number %d", i),
		Platform:         post.Twitter,
		PlatformName:     "Twitter",
		Style:            post.Funny,
		CharacterName:    "Seraphina",
		TimestampDisplay: "14/10/2569 13:05:09",
		CreatedAt:        time.Date(2026, 10, 14, 13, 5, i, 0, time.UTC),
		SourceMessages:   []chat.Message{{IsUser: true, Text: "hi"}},
		Metrics:          post.Metrics{Likes: i},
	}
}

func ids(posts []post.Post) []string {
	return lo.Map(posts, func(p post.Post, _ int) string { return p.ID })
}

func TestInsertFront_Capacity(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewNamespace(storage.NewMemory(), key), 20, quietLogger())

	for i := 0; i < 25; i++ {
		require.NoError(t, s.InsertFront(ctx, newPost(i)))
		assert.LessOrEqual(t, len(s.List()), 20)
	}

	got := ids(s.List())
	require.Len(t, got, 20)
	want := make([]string, 0, 20)
	for i := 24; i >= 5; i-- {
		want = append(want, fmt.Sprintf("id-%02d", i))
	}
	assert.Equal(t, want, got)
}

func TestInsertFront_CapacityOne(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewNamespace(storage.NewMemory(), key), 1, quietLogger())
	require.NoError(t, s.InsertFront(ctx, newPost(1)))
	require.NoError(t, s.InsertFront(ctx, newPost(2)))
	assert.Equal(t, []string{"id-02"}, ids(s.List()))
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewNamespace(storage.NewMemory(), key), 20, quietLogger())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertFront(ctx, newPost(i)))
	}
	before := s.List()

	removed, err := s.RemoveByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, s.List())

	removed, err = s.RemoveByID(ctx, "id-01")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"id-02", "id-00"}, ids(s.List()))
	assert.Len(t, before, 3, "earlier snapshots are not affected")

	_, ok := s.Get("id-01")
	assert.False(t, ok)
	p, ok := s.Get("id-02")
	assert.True(t, ok)
	assert.Equal(t, "post number 2", p.Content)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	ns := storage.NewNamespace(storage.NewMemory(), key)
	s := NewStore(ns, 20, quietLogger())
	require.NoError(t, s.InsertFront(ctx, newPost(1)))
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.List())

	reloaded := NewStore(ns, 20, quietLogger())
	assert.Empty(t, reloaded.Load(ctx))
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ns := storage.NewNamespace(storage.NewMemory(), key)
	s := NewStore(ns, 20, quietLogger())
	for i := 0; i < 6; i++ {
		require.NoError(t, s.InsertFront(ctx, newPost(i)))
	}
	_, err := s.RemoveByID(ctx, "id-03")
	require.NoError(t, err)

	loaded := NewStore(ns, 20, quietLogger()).Load(ctx)
	assert.Equal(t, s.List(), loaded)
}

func TestLoad_Missing(t *testing.T) {
	s := NewStore(storage.NewNamespace(storage.NewMemory(), key), 20, quietLogger())
	got := s.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_MalformedResets(t *testing.T) {
	ctx := context.Background()

	for _, blob := range []string{`{not json`, `{"posts":"nope"}`, `{"posts":null}`} {
		t.Run(blob, func(t *testing.T) {
			mem := storage.NewMemory()
			require.NoError(t, mem.Write(ctx, key, []byte(blob)))
			ns := storage.NewNamespace(mem, key)

			got := NewStore(ns, 20, quietLogger()).Load(ctx)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			raw, err := ns.Field(ctx, Field)
			require.NoError(t, err)
			assert.Contains(t, []string{`[]`, `null`}, string(raw))
		})
	}
}

func TestLoad_TruncatesOversizedFeed(t *testing.T) {
	ctx := context.Background()
	ns := storage.NewNamespace(storage.NewMemory(), key)
	big := NewStore(ns, 100, quietLogger())
	for i := 0; i < 30; i++ {
		require.NoError(t, big.InsertFront(ctx, newPost(i)))
	}

	small := NewStore(ns, 20, quietLogger())
	assert.Len(t, small.Load(ctx), 20)
	assert.Equal(t, "id-29", small.List()[0].ID)
}

func TestUnavailableBackendKeepsMemoryFeed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewNamespace(storage.Unavailable{Reason: "no host"}, key), 20, quietLogger())

	assert.Empty(t, s.Load(ctx))
	require.NoError(t, s.InsertFront(ctx, newPost(1)))
	removed, err := s.RemoveByID(ctx, "id-01")
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, s.Clear(ctx))
}

type brokenBackend struct{ storage.Memory }

func (b *brokenBackend) Write(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestPersistErrorIsReturnedAfterMutation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewNamespace(&brokenBackend{}, key), 20, quietLogger())

	err := s.InsertFront(ctx, newPost(1))
	assert.ErrorContains(t, err, "failed to persist feed")
	assert.Len(t, s.List(), 1)
}

func TestDefaultCapacity(t *testing.T) {
	s := NewStore(storage.NewNamespace(storage.NewMemory(), key), 0, nil)
	assert.Equal(t, DefaultMaxPosts, s.MaxPosts())
}

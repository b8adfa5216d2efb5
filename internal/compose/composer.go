// Package compose turns a window of chat messages into a templated social
// post. Composition is pure apart from the injected random source and clock.
package compose

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/post"
)

// ErrNoContext is returned when the window has no usable message text.
var ErrNoContext = errors.New("no conversation context to build a post from")

// Metric bounds (exclusive).
const (
	maxLikes    = 100
	maxComments = 20
	maxShares   = 10
)

// Request is the input to a single composition.
type Request struct {
	Messages      []chat.Message
	Platform      post.Platform
	Style         post.Style
	CharacterName string
	UserName      string
}

// Composer builds posts. It holds no mutable state of its own and is safe to
// share as long as the random source is.
type Composer struct {
	rand      RandomSource
	now       func() time.Time
	newID     func() (string, error)
	templates Templates
}

// Option customizes a Composer.
type Option func(*Composer)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithIDs overrides post id generation.
func WithIDs(newID func() (string, error)) Option {
	return func(c *Composer) { c.newID = newID }
}

// WithTemplates replaces the template pools.
func WithTemplates(t Templates) Option {
	return func(c *Composer) { c.templates = t }
}

// New returns a Composer drawing from r.
func New(r RandomSource, opts ...Option) *Composer {
	c := &Composer{
		rand:      r,
		now:       time.Now,
		newID:     newUUIDv7,
		templates: DefaultTemplates(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Compose builds one post from the request.
func (c *Composer) Compose(in Request) (post.Post, error) {
	info, ok := in.Platform.Info()
	if !ok {
		return post.Post{}, fmt.Errorf("unknown platform %q", in.Platform)
	}

	synopsis, ok := ExtractContext(in.Messages, in.UserName)
	if !ok {
		return post.Post{}, ErrNoContext
	}

	style, err := c.resolveStyle(in.Style)
	if err != nil {
		return post.Post{}, err
	}
	pool := c.templates[style]
	if len(pool) == 0 {
		return post.Post{}, fmt.Errorf("no templates for style %q", style)
	}

	content := strings.Replace(pick(c.rand, pool), Placeholder, synopsis, 1)
	content = EnforceLength(content, info.MaxLength)
	decoration := c.decoration(info)

	id, err := c.newID()
	if err != nil {
		return post.Post{}, fmt.Errorf("failed to generate post id: %w", err)
	}
	now := c.now()

	return post.Post{
		ID:               id,
		Content:          content + decoration,
		Platform:         in.Platform,
		PlatformName:     info.Name,
		PlatformIcon:     info.Icon,
		Style:            style,
		CharacterName:    chat.CharacterName(in.Messages, in.CharacterName),
		UserName:         in.UserName,
		TimestampDisplay: FormatThai(now),
		CreatedAt:        now,
		SourceMessages:   slices.Clone(in.Messages),
		Metrics: post.Metrics{
			Likes:    c.rand.IntN(maxLikes),
			Comments: c.rand.IntN(maxComments),
			Shares:   c.rand.IntN(maxShares),
		},
		Decoration: decoration,
	}, nil
}

// ComposeAll builds one post per platform from the same window.
func (c *Composer) ComposeAll(in Request, platforms []post.Platform) ([]post.Post, error) {
	out := make([]post.Post, 0, len(platforms))
	for _, p := range platforms {
		in.Platform = p
		pst, err := c.Compose(in)
		if err != nil {
			return nil, err
		}
		out = append(out, pst)
	}
	return out, nil
}

func (c *Composer) resolveStyle(s post.Style) (post.Style, error) {
	if s == post.Random {
		return pick(c.rand, post.Styles()), nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("unknown style %q", s)
	}
	return s, nil
}

// decoration returns the single cosmetic suffix for a platform, possibly
// empty.
func (c *Composer) decoration(info post.PlatformInfo) string {
	if info.TagFriendly {
		return " " + pick(c.rand, Hashtags)
	}
	if c.rand.Float64() < 0.5 {
		return " " + pick(c.rand, Emojis)
	}
	return ""
}

// EnforceLength cuts content to limit runes, ending with "..." when cut.
func EnforceLength(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	return Clip(content, limit)
}

// Package pipeline runs post generation end to end: select recent messages,
// compose, insert into the feed and notify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/compose"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/pterm/pterm"
)

// Composer builds a post from a request.
type Composer interface {
	Compose(in compose.Request) (post.Post, error)
}

// Feed receives generated posts.
type Feed interface {
	InsertFront(ctx context.Context, p post.Post) error
}

// Request is one generation trigger.
type Request struct {
	Log           []chat.Message
	Settings      settings.Settings
	CharacterName string
	UserName      string
	// Platforms overrides Settings.Platform. Posts are inserted in order, so
	// the last platform ends up first in the feed.
	Platforms []post.Platform
	// Notifier overrides the generator's notifier for this request.
	Notifier notify.Notifier
}

// Generator owns the only path that inserts posts, so manual and automatic
// generation never interleave.
type Generator struct {
	Composer Composer
	Feed     Feed
	Notifier notify.Notifier
	Logger   *pterm.Logger
	// Rand drives the auto-generation coin flip.
	Rand compose.RandomSource
	// AutoProbability is the chance a sent message triggers a post.
	AutoProbability float64
	// AutoDelay is the pause before an automatic post appears.
	AutoDelay time.Duration

	mu sync.Mutex
}

// Generate builds and stores posts for the request, one per platform.
func (g *Generator) Generate(ctx context.Context, req Request) ([]post.Post, error) {
	return g.generate(ctx, req, false)
}

// OnMessageSent is the auto-generation hook. It reports whether generation
// was attempted; failures are logged but never toasted.
func (g *Generator) OnMessageSent(ctx context.Context, req Request) ([]post.Post, bool, error) {
	if !req.Settings.Enabled || !req.Settings.AutoGenerate {
		return nil, false, nil
	}
	g.mu.Lock()
	roll := g.Rand.Float64()
	g.mu.Unlock()
	if roll >= g.AutoProbability {
		return nil, false, nil
	}

	if g.AutoDelay > 0 {
		timer := time.NewTimer(g.AutoDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-timer.C:
		}
	}

	posts, err := g.generate(ctx, req, true)
	if err != nil {
		g.logger().Info("auto-generation skipped", g.logger().Args("error", err.Error()))
	}
	return posts, true, err
}

func (g *Generator) generate(ctx context.Context, req Request, quiet bool) ([]post.Post, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	notifier := notify.OrNop(g.Notifier)
	if req.Notifier != nil {
		notifier = req.Notifier
	}
	fail := func(msg string, err error) error {
		if !quiet {
			notifier.Notify(msg, notify.Error)
		}
		g.logger().Warn(msg, g.logger().Args("error", err.Error()))
		return err
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = []post.Platform{req.Settings.Platform}
	}
	window := chat.SelectRecent(req.Log, req.Settings.IncludeRecentMessages)

	var out []post.Post
	for _, platform := range platforms {
		p, err := g.Composer.Compose(compose.Request{
			Messages:      window,
			Platform:      platform,
			Style:         req.Settings.Style,
			CharacterName: req.CharacterName,
			UserName:      req.UserName,
		})
		if errors.Is(err, compose.ErrNoContext) {
			return out, fail(notify.MsgNoContext, err)
		}
		if err != nil {
			return out, fail(notify.MsgFailed, fmt.Errorf("failed to compose post: %w", err))
		}
		if err := g.Feed.InsertFront(ctx, p); err != nil {
			return append(out, p), fail(notify.MsgFailed, err)
		}
		out = append(out, p)
	}

	notifier.Notify(notify.MsgGenerated, notify.Success)
	return out, nil
}

func (g *Generator) logger() *pterm.Logger {
	if g.Logger == nil {
		return &pterm.DefaultLogger
	}
	return g.Logger
}

package feed

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/kernel/socialpost/internal/render"
	"github.com/kernel/socialpost/pkg/util"
	"github.com/pterm/pterm"
)

type FeedRenderInput struct {
	HTMLPath string
	Open     bool
}

// Render prints the feed as terminal cards, or writes an HTML page when
// HTMLPath is set.
func (c FeedCmd) Render(ctx context.Context, in FeedRenderInput) error {
	posts := c.feed.List()

	if in.HTMLPath == "" {
		if in.Open {
			return fmt.Errorf("--open requires --html")
		}
		if len(posts) == 0 {
			pterm.Info.Println("No posts yet")
			return nil
		}
		pterm.Println(render.Cards(posts))
		return nil
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, render.NewPage(posts, false)); err != nil {
		return fmt.Errorf("failed to render feed: %w", err)
	}
	if err := util.WriteFileAtomic(in.HTMLPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", in.HTMLPath, err)
	}
	pterm.Success.Printf("Wrote %d posts to %s\n", len(posts), in.HTMLPath)

	if in.Open && c.openFile != nil {
		abs, err := filepath.Abs(in.HTMLPath)
		if err != nil {
			return err
		}
		if err := c.openFile(abs); err != nil {
			pterm.Warning.Printf("Could not open browser: %v\n", err)
		}
	}
	return nil
}

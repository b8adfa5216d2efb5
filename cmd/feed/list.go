package feed

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kernel/socialpost/internal/compose"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/render"
	"github.com/kernel/socialpost/pkg/table"
	"github.com/kernel/socialpost/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
)

// FeedService defines the subset of the feed store that the feed commands use.
type FeedService interface {
	List() []post.Post
	Get(id string) (post.Post, bool)
	RemoveByID(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// Copier places text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// FeedCmd handles feed operations independent of cobra.
type FeedCmd struct {
	feed      FeedService
	clipboard Copier
	notifier  notify.Notifier
	openFile  func(path string) error
}

type FeedListInput struct {
	Output   string
	Platform string
	Limit    int
}

type FeedShowInput struct {
	ID     string
	Output string
}

// LatestID selects the newest post wherever a post ID is accepted.
const LatestID = "latest"

const excerptLength = 48

func (c FeedCmd) List(ctx context.Context, in FeedListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	posts := c.feed.List()
	if in.Platform != "" {
		platform, err := post.ParsePlatform(in.Platform)
		if err != nil {
			return err
		}
		posts = lo.Filter(posts, func(p post.Post, _ int) bool { return p.Platform == platform })
	}
	if in.Limit > 0 && len(posts) > in.Limit {
		posts = posts[:in.Limit]
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSlice(posts)
	}

	if len(posts) == 0 {
		pterm.Info.Println("No posts yet")
		return nil
	}

	tableData := pterm.TableData{{"#", "ID", "Platform", "Style", "Character", "Created At", "Content"}}
	for i, p := range posts {
		tableData = append(tableData, []string{
			strconv.Itoa(i + 1),
			p.ID,
			platformLabel(p),
			string(p.Style),
			util.OrDash(p.CharacterName),
			util.FormatLocal(p.CreatedAt),
			compose.Clip(p.Content, excerptLength),
		})
	}

	table.PrintTableNoPad(tableData, true)
	return nil
}

func (c FeedCmd) Show(ctx context.Context, in FeedShowInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	p, err := c.find(in.ID)
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(p)
	}

	pterm.Println(render.Card(p))

	tableData := pterm.TableData{
		{"Property", "Value"},
		{"ID", p.ID},
		{"Platform", platformLabel(p)},
		{"Style", string(p.Style)},
		{"Character", util.OrDash(p.CharacterName)},
		{"User", util.OrDash(p.UserName)},
		{"Timestamp", util.OrDash(p.TimestampDisplay)},
		{"Decoration", util.OrDash(p.Decoration)},
		{"Source Messages", strconv.Itoa(len(p.SourceMessages))},
	}
	table.PrintTableNoPad(tableData, true)
	return nil
}

func (c FeedCmd) find(id string) (post.Post, error) {
	if id == LatestID {
		posts := c.feed.List()
		if len(posts) == 0 {
			return post.Post{}, fmt.Errorf("the feed is empty")
		}
		return posts[0], nil
	}
	p, ok := c.feed.Get(id)
	if !ok {
		return post.Post{}, fmt.Errorf("post '%s' not found", id)
	}
	return p, nil
}

func platformLabel(p post.Post) string {
	info, _ := p.Platform.Info()
	name := lo.CoalesceOrEmpty(p.PlatformName, info.Name, string(p.Platform))
	icon := lo.CoalesceOrEmpty(p.PlatformIcon, info.Icon)
	if icon == "" {
		return util.OrDash(name)
	}
	return icon + " " + name
}

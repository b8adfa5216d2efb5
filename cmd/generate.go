package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/render"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/kernel/socialpost/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// SettingsService loads and saves the persisted settings.
type SettingsService interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// GeneratorService defines the subset of the generation pipeline the commands use.
type GeneratorService interface {
	Generate(ctx context.Context, req pipeline.Request) ([]post.Post, error)
	OnMessageSent(ctx context.Context, req pipeline.Request) ([]post.Post, bool, error)
}

// TranscriptLoader resolves and parses a transcript from a path or a chat
// directory, returning the path it read.
type TranscriptLoader func(path, chatDir string) (chat.Transcript, string, error)

// AllPlatforms is the --platform value that generates one post per platform.
const AllPlatforms = "all"

// GenerateCmd handles post generation independent of cobra.
type GenerateCmd struct {
	settings    SettingsService
	generator   GeneratorService
	transcripts TranscriptLoader
}

type GenerateInput struct {
	Transcript string
	ChatDir    string
	Platform   string
	Style      string
	Recent     int
	Character  string
	User       string
	Output     string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a post from the latest chat",
	Long: `Generate a post in the character's voice from the most recent messages of a
chat transcript. Without --transcript the newest chat in the host's chat
directory is used.

Platform, style and window size default to the saved settings.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("transcript", "", "Path to a chat transcript (.jsonl or JSON array)")
	generateCmd.Flags().String("chat-dir", "", "Directory to pick the newest transcript from")
	generateCmd.Flags().String("platform", "", "Platform: facebook, twitter, instagram, threads or all")
	generateCmd.Flags().String("style", "", "Post style, or random")
	generateCmd.Flags().Int("recent", 0, fmt.Sprintf("Number of recent messages to use (%d-%d)", chat.MinRecent, chat.MaxRecent))
	generateCmd.Flags().String("character", "", "Character name shown on the post")
	generateCmd.Flags().String("user", "", "User name used in the post")
	generateCmd.Flags().StringP("output", "o", "", "Output format: json")
}

func (c GenerateCmd) Generate(ctx context.Context, in GenerateInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	st, err := c.settings.Load(ctx)
	if err != nil {
		return err
	}
	platforms, err := applyOverrides(&st, in)
	if err != nil {
		return err
	}

	t, path, err := c.transcripts(in.Transcript, in.ChatDir)
	if err != nil {
		return err
	}
	if in.Output != "json" {
		pterm.Info.Printf("Generating from %s...\n", path)
	}

	req := pipeline.Request{
		Log:           t.Messages,
		Settings:      st,
		CharacterName: lo.CoalesceOrEmpty(in.Character, t.CharacterName),
		UserName:      lo.CoalesceOrEmpty(in.User, t.UserName),
		Platforms:     platforms,
	}
	if in.Output == "json" {
		req.Notifier = notify.Nop{}
	}

	posts, err := c.generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSlice(posts)
	}
	pterm.Println(render.Cards(posts))
	return nil
}

// applyOverrides applies per-run flags to st without saving them and returns
// the platforms to generate for.
func applyOverrides(st *settings.Settings, in GenerateInput) ([]post.Platform, error) {
	var platforms []post.Platform
	switch in.Platform {
	case "":
	case AllPlatforms:
		platforms = post.Platforms()
	default:
		if err := st.Set(settings.KeyPlatform, in.Platform); err != nil {
			return nil, err
		}
	}
	if in.Style != "" {
		if err := st.Set(settings.KeyStyle, in.Style); err != nil {
			return nil, err
		}
	}
	if in.Recent != 0 {
		if err := st.Set(settings.KeyIncludeRecentMessages, strconv.Itoa(in.Recent)); err != nil {
			return nil, err
		}
	}
	return platforms, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a := app.FromCommand(cmd)
	transcript, _ := cmd.Flags().GetString("transcript")
	chatDir, _ := cmd.Flags().GetString("chat-dir")
	platform, _ := cmd.Flags().GetString("platform")
	style, _ := cmd.Flags().GetString("style")
	recent, _ := cmd.Flags().GetInt("recent")
	character, _ := cmd.Flags().GetString("character")
	user, _ := cmd.Flags().GetString("user")
	output, _ := cmd.Flags().GetString("output")

	c := GenerateCmd{settings: a.Settings, generator: a.Generator, transcripts: a.LoadTranscript}
	return c.Generate(cmd.Context(), GenerateInput{
		Transcript: transcript,
		ChatDir:    chatDir,
		Platform:   platform,
		Style:      style,
		Recent:     recent,
		Character:  character,
		User:       user,
		Output:     output,
	})
}

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/render"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const maxWatchLine = 1024 * 1024

// WatchCmd feeds a live message stream into auto-generation.
type WatchCmd struct {
	settings  SettingsService
	generator GeneratorService
	logger    *pterm.Logger
}

type WatchInput struct {
	Input io.Reader
	// History is the conversation so far; streamed lines are appended to it.
	History   chat.Transcript
	Character string
	User      string
	Output    string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Auto-generate posts from a live message stream",
	Long: `Read chat messages as JSON lines on stdin, in the host's transcript format.
Every message you send may trigger a post when autoGenerate is on.

Example:
  tail -n0 -f chats/Seraphina/latest.jsonl | socialpost watch`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("transcript", "", "Transcript to load as earlier conversation")
	watchCmd.Flags().String("character", "", "Character name shown on posts")
	watchCmd.Flags().String("user", "", "User name used in posts")
	watchCmd.Flags().StringP("output", "o", "", "Output format: json (one post per line)")
}

func (c WatchCmd) Watch(ctx context.Context, in WatchInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if c.logger == nil {
		c.logger = &pterm.DefaultLogger
	}

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in.Input)
		sc.Buffer(make([]byte, 0, 64*1024), maxWatchLine)
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	var (
		wg    sync.WaitGroup
		outMu sync.Mutex
	)
	defer wg.Wait()

	t := in.History
	for {
		var line []byte
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			break
		}

		before := len(t.Messages)
		skipped := t.Skipped
		t.Append(line)
		if t.Skipped > skipped {
			c.logger.Warn("skipping unreadable message line")
			continue
		}
		if len(t.Messages) == before || !t.Messages[len(t.Messages)-1].IsUser {
			continue
		}

		st, err := c.settings.Load(ctx)
		if err != nil {
			return err
		}
		req := pipeline.Request{
			Log:           append([]chat.Message(nil), t.Messages...),
			Settings:      st,
			CharacterName: lo.CoalesceOrEmpty(in.Character, t.CharacterName),
			UserName:      lo.CoalesceOrEmpty(in.User, t.UserName),
		}
		if in.Output == "json" {
			req.Notifier = notify.Nop{}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			posts, fired, err := c.generator.OnMessageSent(ctx, req)
			if !fired || err != nil {
				return
			}
			outMu.Lock()
			defer outMu.Unlock()
			c.print(posts, in.Output)
		}()
	}

	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("failed to read messages: %w", err)
		}
	default:
	}
	return nil
}

func (c WatchCmd) print(posts []post.Post, output string) {
	for _, p := range posts {
		if output == "json" {
			b, err := json.Marshal(p)
			if err != nil {
				c.logger.Error("failed to encode post", c.logger.Args("error", err.Error()))
				continue
			}
			fmt.Println(string(b))
			continue
		}
		pterm.Println(render.Card(p))
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := app.FromCommand(cmd)
	transcript, _ := cmd.Flags().GetString("transcript")
	character, _ := cmd.Flags().GetString("character")
	user, _ := cmd.Flags().GetString("user")
	output, _ := cmd.Flags().GetString("output")

	var history chat.Transcript
	if transcript != "" {
		t, _, err := a.LoadTranscript(transcript, "")
		if err != nil {
			return err
		}
		history = t
	}

	st, _ := a.Settings.Load(cmd.Context())
	if output != "json" {
		if !st.Enabled || !st.AutoGenerate {
			pterm.Warning.Println("Auto-generation is off: run 'socialpost settings set autoGenerate true'")
		}
		pterm.Info.Println("Watching stdin for messages...")
	}

	c := WatchCmd{settings: a.Settings, generator: a.Generator, logger: a.Logger}
	return c.Watch(cmd.Context(), WatchInput{
		Input:     os.Stdin,
		History:   history,
		Character: character,
		User:      user,
		Output:    output,
	})
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/kernel/socialpost/cmd/feed"
	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Metadata is stamped into the binary at build time.
type Metadata struct {
	Version string
	Commit  string
}

var metadata = Metadata{Version: "dev", Commit: "none"}

// noSession marks commands that run without opening storage.
const noSession = "socialpost/no-session"

// session is the App opened for the running command, closed by Execute.
var session *app.App

var rootCmd = &cobra.Command{
	Use:   "socialpost",
	Short: "Turn roleplay chats into in-character social media posts",
	Long: `socialpost reads a chat transcript and writes a short social media post in
the character's voice, styled for Facebook, Twitter, Instagram or Threads.

Posts are kept in a small feed stored next to the chat host's settings, or in
a local database when the host is not installed.`,
	SilenceUsage:      true,
	PersistentPreRunE: openSession,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("backend", "", "Storage backend: auto, host, local, postgres or memory")
	pf.String("host-root", "", "Chat host install directory")
	pf.String("host-settings", "", "Path to the host settings.json (overrides --host-root)")
	pf.Int("max-posts", 0, "Number of posts the feed keeps")
	pf.Uint64("seed", 0, "Random seed for reproducible posts (0 picks one)")
	pf.Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(transcriptsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feed.Cmd)
}

// Execute runs the root command.
func Execute(m Metadata) {
	metadata = m
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(metadata.Version),
		fang.WithCommit(metadata.Commit),
	)
	closeSession()
	if err != nil {
		os.Exit(1)
	}
}

func openSession(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noSession] == "true" {
			return nil
		}
	}

	cfg := config.Load()
	if err := applyConfigFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	session = a
	cmd.SetContext(app.WithContext(cmd.Context(), a))
	return nil
}

// closeSession releases the storage handles whether or not the command failed.
func closeSession() {
	if session != nil {
		session.Close()
		session = nil
	}
}

// applyConfigFlags overrides cfg with the persistent flags the user set.
func applyConfigFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("backend") {
		cfg.Backend, _ = fs.GetString("backend")
	}
	if fs.Changed("host-root") {
		cfg.HostRoot, _ = fs.GetString("host-root")
	}
	if fs.Changed("host-settings") {
		cfg.HostSettings, _ = fs.GetString("host-settings")
	}
	if fs.Changed("max-posts") {
		n, _ := fs.GetInt("max-posts")
		if n < 1 {
			return fmt.Errorf("--max-posts must be at least 1")
		}
		cfg.MaxPosts = n
	}
	if fs.Changed("seed") {
		cfg.Seed, _ = fs.GetUint64("seed")
	}
	if debug, _ := fs.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return nil
}

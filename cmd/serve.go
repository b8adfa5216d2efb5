package cmd

import (
	"context"
	"fmt"
	"net"

	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/panel"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// DefaultPanelAddr keeps the panel on the loopback interface.
const DefaultPanelAddr = "127.0.0.1:8787"

// PanelServer runs the web panel.
type PanelServer interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// ServeCmd runs the local web panel.
type ServeCmd struct {
	server  PanelServer
	openURL func(url string) error
}

type ServeInput struct {
	Addr string
	Open bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feed as a local web panel",
	Long: `Serve the feed on a local web page with buttons to generate, delete and clear
posts. Generation reads the transcript given by --transcript, or the newest
chat in the host's chat directory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", DefaultPanelAddr, "Address to listen on")
	serveCmd.Flags().Bool("open", false, "Open the panel in the default browser")
	serveCmd.Flags().String("transcript", "", "Transcript to generate from")
	serveCmd.Flags().String("chat-dir", "", "Directory to pick the newest transcript from")
}

func (c ServeCmd) Serve(ctx context.Context, in ServeInput) error {
	host, _, err := net.SplitHostPort(in.Addr)
	if err != nil {
		return fmt.Errorf("invalid --addr %q: %w", in.Addr, err)
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		pterm.Warning.Printf("The panel has no authentication and is reachable on %s\n", in.Addr)
	}

	url := "http://" + in.Addr
	pterm.Info.Printf("Serving panel on %s (Ctrl+C to stop)\n", url)
	if in.Open && c.openURL != nil {
		if err := c.openURL(url); err != nil {
			pterm.Warning.Printf("Could not open browser: %v\n", err)
		}
	}

	if err := c.server.ListenAndServe(ctx, in.Addr); err != nil {
		return err
	}
	pterm.Info.Println("Panel stopped")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a := app.FromCommand(cmd)
	addr, _ := cmd.Flags().GetString("addr")
	open, _ := cmd.Flags().GetBool("open")
	transcript, _ := cmd.Flags().GetString("transcript")
	chatDir, _ := cmd.Flags().GetString("chat-dir")

	srv := &panel.Server{
		Feed:      a.Feed,
		Settings:  a.Settings,
		Generator: a.Generator,
		Transcript: func() (chat.Transcript, error) {
			t, _, err := a.LoadTranscript(transcript, chatDir)
			return t, err
		},
		Logger: a.Logger,
	}

	c := ServeCmd{server: srv, openURL: browser.OpenURL}
	return c.Serve(cmd.Context(), ServeInput{Addr: addr, Open: open})
}

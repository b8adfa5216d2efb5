package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/host"
	"github.com/kernel/socialpost/pkg/table"
	"github.com/kernel/socialpost/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// TranscriptsCmd lists chat transcripts found on disk.
type TranscriptsCmd struct {
	list func(dir string) ([]host.Transcript, error)
}

type TranscriptsListInput struct {
	Dir    string
	Limit  int
	Output string
}

type transcriptJSON struct {
	Path      string `json:"path"`
	Character string `json:"character"`
	Modified  string `json:"modified"`
	Size      int64  `json:"size"`
}

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "List chat transcripts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTranscripts,
}

func init() {
	transcriptsCmd.Flags().String("chat-dir", "", "Directory to search (defaults to the host chat directory)")
	transcriptsCmd.Flags().Int("limit", 20, "Maximum number of transcripts to show (0 for all)")
	transcriptsCmd.Flags().StringP("output", "o", "", "Output format: json")
}

func (c TranscriptsCmd) List(ctx context.Context, in TranscriptsListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if in.Dir == "" {
		return fmt.Errorf("no chat directory: use --chat-dir or SOCIALPOST_HOST_ROOT")
	}

	found, err := c.list(in.Dir)
	if err != nil {
		return err
	}
	if in.Limit > 0 && len(found) > in.Limit {
		found = found[:in.Limit]
	}

	if in.Output == "json" {
		out := make([]transcriptJSON, 0, len(found))
		for _, t := range found {
			out = append(out, transcriptJSON{
				Path:      t.Path,
				Character: t.Character,
				Modified:  t.ModTime.UTC().Format(time.RFC3339),
				Size:      t.Size,
			})
		}
		return util.PrintPrettyJSONSlice(out)
	}

	if len(found) == 0 {
		pterm.Info.Printf("No transcripts found in %s\n", in.Dir)
		return nil
	}

	tableData := pterm.TableData{{"Character", "File", "Modified", "Size"}}
	for _, t := range found {
		tableData = append(tableData, []string{
			t.Character,
			filepath.Base(t.Path),
			util.FormatLocal(t.ModTime),
			util.FormatBytes(t.Size),
		})
	}
	table.PrintTableNoPad(tableData, true)
	return nil
}

func runTranscripts(cmd *cobra.Command, args []string) error {
	a := app.FromCommand(cmd)
	dir, _ := cmd.Flags().GetString("chat-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = a.Config.ChatsPath()
	}

	c := TranscriptsCmd{list: host.ListTranscripts}
	return c.List(cmd.Context(), TranscriptsListInput{Dir: dir, Limit: limit, Output: output})
}

// Package feed provides commands for browsing and managing generated posts.
package feed

import (
	"github.com/kernel/socialpost/internal/app"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for feed operations
var Cmd = &cobra.Command{
	Use:     "feed",
	Aliases: []string{"posts"},
	Short:   "Browse and manage generated posts",
	Long: `Commands for the post feed.

The feed keeps the most recent posts, newest first. Posts are added by
"socialpost generate" and by "socialpost watch" when auto-generation fires.

Examples:
  # Show the feed as a table
  socialpost feed list

  # Show one post as a card
  socialpost feed show latest

  # Copy a post's text to the clipboard
  socialpost feed copy <post-id>

  # Write the feed as an HTML page and open it
  socialpost feed render --html feed.html --open`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts in the feed",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <post-id|latest>",
	Short: "Show a post as a card",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every post in the feed",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var copyCmd = &cobra.Command{
	Use:   "copy <post-id|latest>",
	Short: "Copy a post's text to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the feed as cards or an HTML page",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	listCmd.Flags().StringP("output", "o", "", "Output format: json")
	listCmd.Flags().String("platform", "", "Only show posts for this platform")
	listCmd.Flags().Int("limit", 0, "Maximum number of posts to show")

	showCmd.Flags().StringP("output", "o", "", "Output format: json")

	deleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	clearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	renderCmd.Flags().String("html", "", "Write an HTML page to this file instead of printing cards")
	renderCmd.Flags().Bool("open", false, "Open the HTML page in the default browser")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(clearCmd)
	Cmd.AddCommand(copyCmd)
	Cmd.AddCommand(renderCmd)
}

func newFeedCmd(cmd *cobra.Command) FeedCmd {
	a := app.FromCommand(cmd)
	return FeedCmd{
		feed:      a.Feed,
		clipboard: a.Clipboard,
		notifier:  a.Notifier,
		openFile:  browser.OpenFile,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	platform, _ := cmd.Flags().GetString("platform")
	limit, _ := cmd.Flags().GetInt("limit")

	return newFeedCmd(cmd).List(cmd.Context(), FeedListInput{
		Output:   output,
		Platform: platform,
		Limit:    limit,
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return newFeedCmd(cmd).Show(cmd.Context(), FeedShowInput{ID: args[0], Output: output})
}

func runDelete(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("yes")
	return newFeedCmd(cmd).Delete(cmd.Context(), FeedDeleteInput{ID: args[0], SkipConfirm: skip})
}

func runClear(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("yes")
	return newFeedCmd(cmd).Clear(cmd.Context(), FeedClearInput{SkipConfirm: skip})
}

func runCopy(cmd *cobra.Command, args []string) error {
	return newFeedCmd(cmd).Copy(cmd.Context(), FeedCopyInput{ID: args[0]})
}

func runRender(cmd *cobra.Command, args []string) error {
	htmlPath, _ := cmd.Flags().GetString("html")
	open, _ := cmd.Flags().GetBool("open")
	return newFeedCmd(cmd).Render(cmd.Context(), FeedRenderInput{HTMLPath: htmlPath, Open: open})
}

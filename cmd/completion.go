package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer, descriptions bool) error{
	"bash": func(root *cobra.Command, w io.Writer, d bool) error { return root.GenBashCompletionV2(w, d) },
	"zsh": func(root *cobra.Command, w io.Writer, d bool) error {
		if d {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, d bool) error { return root.GenFishCompletion(w, d) },
	"powershell": func(root *cobra.Command, w io.Writer, d bool) error {
		if d {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <bash|zsh|fish|powershell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for your shell. Completions cover commands,
flags and setting keys.

  bash:        source <(socialpost completion bash)
  zsh:         socialpost completion zsh > "${fpath[1]}/_socialpost"
  fish:        socialpost completion fish > ~/.config/fish/completions/socialpost.fish
  powershell:  socialpost completion powershell | Out-String | Invoke-Expression`,
	Annotations:           map[string]string{noSession: "true"},
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	completionCmd.Flags().Bool("no-descriptions", false, "Leave flag and command descriptions out of the script")
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	gen, ok := completionShells[args[0]]
	if !ok {
		return fmt.Errorf("unsupported shell %q", args[0])
	}
	noDesc, _ := cmd.Flags().GetBool("no-descriptions")
	return gen(cmd.Root(), cmd.OutOrStdout(), !noDesc)
}

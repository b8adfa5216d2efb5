package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kernel/socialpost/internal/app"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/kernel/socialpost/pkg/table"
	"github.com/kernel/socialpost/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// SettingsCmd handles settings operations independent of cobra.
type SettingsCmd struct {
	store    SettingsService
	notifier notify.Notifier
}

type SettingsShowInput struct {
	Output string
}

type SettingsSetInput struct {
	Key   string
	Value string
}

type SettingsResetInput struct {
	SkipConfirm bool
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change generation settings",
	Long: fmt.Sprintf(`Commands for the saved generation settings.

Keys:
  %s  one of %s
  %s     one of %s or %s
  %s  number of recent messages, %d-%d
  %s  generate automatically after you send a message
  %s  master switch for automatic generation`,
		settings.KeyPlatform, joinValues(post.Platforms()),
		settings.KeyStyle, joinValues(post.Styles()), post.Random,
		settings.KeyIncludeRecentMessages, chat.MinRecent, chat.MaxRecent,
		settings.KeyAutoGenerate,
		settings.KeyEnabled),
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: settings.Keys(),
	RunE:      runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsShowCmd.Flags().StringP("output", "o", "", "Output format: json")
	settingsResetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func (c SettingsCmd) Show(ctx context.Context, in SettingsShowInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	st, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(st)
	}

	tableData := pterm.TableData{{"Key", "Value"}}
	for _, key := range settings.Keys() {
		value, _ := st.Get(key)
		tableData = append(tableData, []string{key, value})
	}
	table.PrintTableNoPad(tableData, true)

	extra := lo.Keys(st.Extra())
	if len(extra) > 0 {
		slices.Sort(extra)
		pterm.Info.Printf("Other stored keys: %s\n", util.JoinOrDash(extra...))
	}
	return nil
}

func (c SettingsCmd) Set(ctx context.Context, in SettingsSetInput) error {
	st, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := st.Set(in.Key, in.Value); err != nil {
		return err
	}
	if err := c.store.Save(ctx, st); err != nil {
		return err
	}

	value, _ := st.Get(in.Key)
	pterm.Success.Printf("%s = %s\n", in.Key, value)
	notify.OrNop(c.notifier).Notify(notify.MsgSaved, notify.Success)
	return nil
}

func (c SettingsCmd) Reset(ctx context.Context, in SettingsResetInput) error {
	if !in.SkipConfirm {
		pterm.DefaultInteractiveConfirm.DefaultText = "Are you sure you want to restore the default settings?"
		ok, _ := pterm.DefaultInteractiveConfirm.Show()
		if !ok {
			pterm.Info.Println("Reset cancelled")
			return nil
		}
	}

	st, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, st.Reset()); err != nil {
		return err
	}
	notify.OrNop(c.notifier).Notify(notify.MsgSaved, notify.Success)
	return nil
}

func joinValues[T ~string](values []T) string {
	return strings.Join(lo.Map(values, func(v T, _ int) string { return string(v) }), ", ")
}

func newSettingsCmd(cmd *cobra.Command) SettingsCmd {
	a := app.FromCommand(cmd)
	return SettingsCmd{store: a.Settings, notifier: a.Notifier}
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return newSettingsCmd(cmd).Show(cmd.Context(), SettingsShowInput{Output: output})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	return newSettingsCmd(cmd).Set(cmd.Context(), SettingsSetInput{Key: args[0], Value: args[1]})
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("yes")
	return newSettingsCmd(cmd).Reset(cmd.Context(), SettingsResetInput{SkipConfirm: skip})
}

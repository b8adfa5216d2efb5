package feed

import (
	"context"
	"fmt"

	"github.com/kernel/socialpost/internal/notify"
	"github.com/pterm/pterm"
)

type FeedDeleteInput struct {
	ID          string
	SkipConfirm bool
}

type FeedClearInput struct {
	SkipConfirm bool
}

func (c FeedCmd) Delete(ctx context.Context, in FeedDeleteInput) error {
	if !in.SkipConfirm {
		msg := fmt.Sprintf("Are you sure you want to delete post '%s'?", in.ID)
		pterm.DefaultInteractiveConfirm.DefaultText = msg
		ok, _ := pterm.DefaultInteractiveConfirm.Show()
		if !ok {
			pterm.Info.Println("Deletion cancelled")
			return nil
		}
	}

	removed, err := c.feed.RemoveByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if !removed {
		pterm.Info.Printf("Post '%s' not found\n", in.ID)
		return nil
	}
	notify.OrNop(c.notifier).Notify(notify.MsgDeleted, notify.Success)
	return nil
}

func (c FeedCmd) Clear(ctx context.Context, in FeedClearInput) error {
	if !in.SkipConfirm {
		pterm.DefaultInteractiveConfirm.DefaultText = notify.MsgConfirmClear
		ok, _ := pterm.DefaultInteractiveConfirm.Show()
		if !ok {
			pterm.Info.Println("Clear cancelled")
			return nil
		}
	}

	if err := c.feed.Clear(ctx); err != nil {
		return err
	}
	notify.OrNop(c.notifier).Notify(notify.MsgCleared, notify.Success)
	return nil
}

package feed

import (
	"context"
	"fmt"

	"github.com/kernel/socialpost/internal/notify"
)

type FeedCopyInput struct {
	ID string
}

func (c FeedCmd) Copy(ctx context.Context, in FeedCopyInput) error {
	p, err := c.find(in.ID)
	if err != nil {
		return err
	}

	notifier := notify.OrNop(c.notifier)
	if c.clipboard == nil {
		notifier.Notify(notify.MsgCopyFail, notify.Error)
		return fmt.Errorf("no clipboard available")
	}
	if err := c.clipboard.Copy(p.Content); err != nil {
		notifier.Notify(notify.MsgCopyFail, notify.Error)
		return err
	}
	notifier.Notify(notify.MsgCopied, notify.Success)
	return nil
}

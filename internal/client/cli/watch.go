package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/client/store"
)

func (c *Cli) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print changes of the todo list as they happen, local and remote, until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context())
		},
	}
}

func (c *Cli) runWatch(ctx context.Context) error {
	user, err := c.user()
	if err != nil {
		return err
	}

	events := make(chan store.Notification, 64)
	printer := store.SubscriberFunc(func(n store.Notification) error {
		select {
		case events <- n:
		default:
			c.logger.Warn("Watch output is behind, notification dropped", "kind", n.Kind.String())
		}
		return nil
	})

	return c.withStore(ctx, c.todosConfig(user), &printer, func(s *store.Store) error {
		for {
			select {
			case n := <-events:
				c.printNotification(n)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func (c *Cli) printNotification(n store.Notification) {
	ts := time.Now().Format(time.TimeOnly)
	switch n.Kind {
	case store.KindSnapshot:
		c.io.Printf("%s snapshot: %d todo(s)\n", ts, len(n.Docs))
	case store.KindUploaded:
		c.io.Printf("%s uploaded: %s\n", ts, strings.Join(n.IDs(), " "))
	default:
		for _, doc := range n.Docs {
			action := "changed"
			if doc.IsTombstone() {
				action = "deleted"
			}
			c.io.Printf("%s %s: %s %s\n", ts, action, doc.ID, textOf(doc))
		}
	}
}

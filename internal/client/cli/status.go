package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/client/api"
	"github.com/iudanet/docsync/internal/client/store"
	"github.com/iudanet/docsync/internal/models"
)

// remoteProbeTimeout ограничивает запрос списка баз в status
const remoteProbeTimeout = 5 * time.Second

func (c *Cli) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local state and server availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== docsync status ===")
	c.io.Printf("User:     %s\n", c.opts.User)
	c.io.Printf("Data dir: %s\n", c.opts.DataDir)
	if c.opts.Server == "" {
		c.io.Printf("Server:   not configured (offline only)\n")
	} else {
		c.io.Printf("Server:   %s\n", c.opts.Server)
	}
	c.io.Println()

	err := c.withTodos(ctx, func(s *store.Store, user string) error {
		m := s.Meta()
		c.io.Printf("Store:    %s\n", s.Config().Name)
		c.io.Printf("Todos:    %d\n", len(s.Docs()))
		if !m.TsUpload.After(models.DefaultMeta().TsUpload) {
			c.io.Printf("Uploaded: never\n")
		} else {
			c.io.Printf("Uploaded: %s\n", m.TsUpload.Local().Format(time.RFC3339))
		}

		if pending := s.CountUnuploaded(); pending > 0 {
			c.io.Printf("⚠️  Pending upload: %d document(s)\n", pending)
			c.io.Println("Run 'docsync upload' to send them to the server.")
		} else {
			c.io.Println("✓ All changes uploaded")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if c.opts.Server == "" {
		return nil
	}

	c.io.Println()
	c.printRemoteDatabases(ctx)
	return nil
}

// printRemoteDatabases печатает базы, доступные пользователю на сервере.
// Ошибки не фатальны: status должен работать и без сети.
func (c *Cli) printRemoteDatabases(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, remoteProbeTimeout)
	defer cancel()

	dbs, err := api.NewClient(c.opts.Server, c.opts.Token).Databases(ctx)
	if err != nil {
		c.io.Printf("Server unreachable: %v\n", err)
		return
	}

	if len(dbs) == 0 {
		c.io.Println("No databases on the server yet")
		return
	}

	c.io.Println("Server databases:")
	for _, db := range dbs {
		marker := " "
		if strings.HasSuffix(db.Name, "_"+c.opts.User) {
			marker = "*"
		}
		c.io.Printf(" %s %-24s %6d docs  seq %d\n", marker, db.Name, db.Documents, db.LastSeq)
	}
}

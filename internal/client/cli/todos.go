package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/client/store"
	"github.com/iudanet/docsync/internal/models"
)

func (c *Cli) newAddCommand() *cobra.Command {
	var extra []string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a todo; prompts for the text when it is not given",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				var err error
				if text, err = c.io.ReadInput("Text: "); err != nil {
					return fmt.Errorf("failed to read text: %w", err)
				}
			}
			if text == "" {
				return errors.New("text cannot be empty")
			}

			fields, err := parseFields(extra)
			if err != nil {
				return err
			}
			fields["text"] = text
			if _, ok := fields["done"]; !ok {
				fields["done"] = false
			}

			return c.runAdd(cmd.Context(), fields)
		},
	}

	cmd.Flags().StringArrayVarP(&extra, "field", "f", nil, "extra field key=value (repeatable)")
	return cmd
}

func (c *Cli) runAdd(ctx context.Context, fields models.Fields) error {
	return c.withTodos(ctx, func(s *store.Store, user string) error {
		id, err := s.AddItem(ctx, fields, user)
		if err != nil {
			return fmt.Errorf("failed to add todo: %w", err)
		}
		c.io.Println(id)
		return nil
	})
}

func (c *Cli) newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> key=value...",
		Short: "Change fields of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), args[0], fields)
		},
	}
}

func (c *Cli) newDoneCommand() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], models.Fields{"done": !undo})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not done")
	return cmd
}

func (c *Cli) runEdit(ctx context.Context, id string, fields models.Fields) error {
	return c.withTodos(ctx, func(s *store.Store, user string) error {
		if !containsDoc(s.Docs(), id) {
			return fmt.Errorf("todo %s not found", id)
		}
		if err := s.EditItem(ctx, id, fields, user); err != nil {
			return fmt.Errorf("failed to edit todo: %w", err)
		}
		return nil
	})
}

func (c *Cli) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete todos",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withTodos(ctx, func(s *store.Store, user string) error {
				for _, id := range args {
					if !containsDoc(s.Docs(), id) {
						return fmt.Errorf("todo %s not found", id)
					}
					if err := s.DeleteItem(ctx, id, user); err != nil {
						return fmt.Errorf("failed to delete todo %s: %w", id, err)
					}
				}
				return nil
			})
		},
	}
}

func (c *Cli) newListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos, newest first",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTodos(cmd.Context(), func(s *store.Store, user string) error {
				return c.printDocs(s.Docs(), format, func(id string) bool {
					return !s.IsUploaded(id)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", FormatAuto, "output format (table|plain|json|yaml)")
	return cmd
}

func (c *Cli) newUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload local changes to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.opts.Server == "" {
				return fmt.Errorf("server is not set (--server or %s_SERVER)", EnvPrefix)
			}
			ctx := cmd.Context()
			return c.withTodos(ctx, func(s *store.Store, user string) error {
				if err := s.Upload(ctx); err != nil {
					if errors.Is(err, store.ErrOffline) {
						return fmt.Errorf("server %s is unreachable, changes stay local", c.opts.Server)
					}
					return err
				}
				c.io.Printf("Upload complete, %d pending\n", s.CountUnuploaded())
				return nil
			})
		},
	}
}

func containsDoc(docs []models.Document, id string) bool {
	for _, doc := range docs {
		if doc.ID == id {
			return true
		}
	}
	return false
}

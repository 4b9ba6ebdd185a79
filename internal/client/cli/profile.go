package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/client/store"
)

func (c *Cli) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the user profile",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProfile(cmd.Context(), func(s *store.Store) error {
				return c.printFields(s.Single(), format)
			})
		},
	}
	show.Flags().StringVarP(&format, "output", "o", FormatAuto, "output format (plain|json|yaml)")

	set := &cobra.Command{
		Use:   "set key=value...",
		Short: "Change profile fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withProfile(ctx, func(s *store.Store) error {
				return s.EditSingle(ctx, fields)
			})
		},
	}

	reset := &cobra.Command{
		Use:   "clear",
		Short: "Reset the profile to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withProfile(ctx, func(s *store.Store) error {
				return s.DeleteSingle(ctx)
			})
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

func (c *Cli) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.io.Println("docsync client")
			c.io.Printf("Version:    %s\n", c.version.Version)
			c.io.Printf("Build Date: %s\n", c.version.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.version.GitCommit)
		},
	}
}

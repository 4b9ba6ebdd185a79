package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/config"
	"github.com/iudanet/docsync/internal/logging"
	"github.com/iudanet/docsync/internal/server/app"
	"github.com/iudanet/docsync/internal/server/jwt"
	"github.com/iudanet/docsync/internal/validation"
)

const envPrefix = "DOCSYNC_SERVER"

// settings объединяет конфигурацию сервера и логирования
type settings struct {
	app.Config `mapstructure:",squash"`
	Log        logging.Config `mapstructure:"log"`
}

var flagKeys = map[string]string{
	"addr":         "addr",
	"db":           "db",
	"jwt-secret":   "jwt_secret",
	"rate":         "rate",
	"rate-window":  "rate_window",
	"max-longpoll": "max_longpoll",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "docsync-server",
		Short:         "docsync replication server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newTokenCommand(&configFile))
	root.AddCommand(newVersionCommand())
	return root
}

// loadSettings собирает настройки из флагов, окружения и файла
func loadSettings(cmd *cobra.Command, configFile string) (settings, error) {
	s := settings{Config: app.DefaultConfig(), Log: logging.DefaultConfig()}

	v := config.New(envPrefix)
	keys := make(map[string]string)
	for name, key := range flagKeys {
		if cmd.Flags().Lookup(name) != nil {
			keys[name] = key
		}
	}
	if err := config.BindFlags(v, cmd.Flags(), keys); err != nil {
		return settings{}, err
	}
	if err := config.Load(v, configFile, &s); err != nil {
		return settings{}, err
	}
	s.Version = Version
	return s, nil
}

func newServeCommand(configFile *string) *cobra.Command {
	defaults := app.DefaultConfig()
	logDefaults := logging.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the replication server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, *configFile)
			if err != nil {
				return err
			}
			return serve(cmd, s)
		},
	}

	f := cmd.Flags()
	f.String("addr", defaults.Addr, "listen address")
	f.String("db", defaults.DBPath, "path to the SQLite database")
	f.String("jwt-secret", "", "HMAC secret for bearer tokens; empty disables auth")
	f.Int("rate", defaults.RateLimit, "requests per client IP per window; 0 disables limiting")
	f.Duration("rate-window", defaults.RateWindow, "rate limit window")
	f.Duration("max-longpoll", defaults.MaxLongPoll, "upper bound for long-poll timeouts")
	f.String("log-level", logDefaults.Level, "log level (debug|info|warn|error)")
	f.String("log-format", logDefaults.Format, "log format (text|json)")
	f.String("log-file", "", "write logs to a rotated file instead of stderr")
	return cmd
}

func serve(cmd *cobra.Command, s settings) error {
	logger, closer, err := logging.New(s.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	server, err := app.New(ctx, s.Config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Error("Failed to close server", "error", err)
		}
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("Server failed", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func newTokenCommand(configFile *string) *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		Long: "Issue a bearer token for a user. The token grants access to databases\n" +
			"whose names end with _<user>, e.g. todos_alice and profile_alice.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, *configFile)
			if err != nil {
				return err
			}
			return issueToken(cmd.OutOrStdout(), s.JWTSecret, user, ttl)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user the token is issued for")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	cmd.Flags().String("jwt-secret", "", "HMAC secret; must match the server")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func issueToken(out io.Writer, secret, user string, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("jwt secret is not configured (--jwt-secret or %s_JWT_SECRET)", envPrefix)
	}
	if err := validation.ValidateUsername(user); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	token, expiresAt, err := jwt.NewService(secret, ttl).GenerateToken(user)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	fmt.Fprintf(out, "# expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docsync server\n")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

// Package cli implements the docsync command line client: a todo list kept in an
// offline-first store and replicated to a docsync server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iudanet/docsync/internal/client/iocli"
	"github.com/iudanet/docsync/internal/client/store"
	"github.com/iudanet/docsync/internal/config"
	"github.com/iudanet/docsync/internal/logging"
	"github.com/iudanet/docsync/internal/validation"
)

// EnvPrefix is the prefix of client environment variables (DOCSYNC_SERVER, DOCSYNC_USER, ...)
const EnvPrefix = "DOCSYNC"

// Options are the global client settings
type Options struct {
	// Server адрес сервера репликации; пусто = только локальная работа
	Server string `mapstructure:"server"`
	// Token bearer-токен, выданный docsync-server token
	Token string `mapstructure:"token"`
	// User владелец хранилищ todos_<user> и profile_<user>
	User string `mapstructure:"user"`
	// DataDir каталог с файлами bbolt
	DataDir string `mapstructure:"data_dir"`
	Log     logging.Config `mapstructure:"log"`
}

// VersionInfo is reported by the version command
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli holds the state shared by all commands
type Cli struct {
	io      iocli.IO
	logger  *slog.Logger
	closer  io.Closer
	openers func(opts Options, logger *slog.Logger) store.Openers
	version VersionInfo
	opts    Options
}

// New creates a client talking through terminal
func New(terminal iocli.IO, version VersionInfo) *Cli {
	return &Cli{
		io:      terminal,
		logger:  logging.Discard(),
		version: version,
		openers: func(opts Options, logger *slog.Logger) store.Openers {
			return store.BoltOpeners(opts.DataDir, opts.Token, logger)
		},
	}
}

var flagKeys = map[string]string{
	"server":     "server",
	"token":      "token",
	"user":       "user",
	"data-dir":   "data_dir",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// RootCommand builds the command tree
func (c *Cli) RootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "docsync",
		Short:         "Offline-first todo list synchronized with a docsync server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd, configFile)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	logDefaults := logging.DefaultConfig()

	f := root.PersistentFlags()
	f.StringVar(&configFile, "config", "", "path to a YAML config file")
	f.String("server", "", "server URL, e.g. http://localhost:8080; empty works offline only")
	f.String("token", "", "bearer token issued by docsync-server token")
	f.String("user", "", "user name; stores are todos_<user> and profile_<user>")
	f.String("data-dir", defaultDataDir(), "directory for local databases")
	f.String("log-level", "warn", "log level (debug|info|warn|error)")
	f.String("log-format", logDefaults.Format, "log format (text|json)")
	f.String("log-file", "", "write logs to a rotated file instead of stderr")

	root.AddCommand(
		c.newAddCommand(),
		c.newEditCommand(),
		c.newDoneCommand(),
		c.newDeleteCommand(),
		c.newListCommand(),
		c.newUploadCommand(),
		c.newStatusCommand(),
		c.newWatchCommand(),
		c.newProfileCommand(),
		c.newVersionCommand(),
	)
	return root
}

// setup загружает настройки и создает логгер перед запуском команды
func (c *Cli) setup(cmd *cobra.Command, configFile string) error {
	opts := Options{Log: logging.DefaultConfig()}

	v := config.New(EnvPrefix)
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return err
	}
	if err := config.Load(v, configFile, &opts); err != nil {
		return err
	}

	logger, closer, err := logging.New(opts.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.opts, c.logger, c.closer = opts, logger, closer
	return nil
}

func (c *Cli) teardown() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docsync"
	}
	return filepath.Join(home, ".docsync")
}

func (c *Cli) user() (string, error) {
	if c.opts.User == "" {
		return "", fmt.Errorf("user is not set (--user or %s_USER)", EnvPrefix)
	}
	if err := validation.ValidateUsername(c.opts.User); err != nil {
		return "", fmt.Errorf("invalid user: %w", err)
	}
	return c.opts.User, nil
}

// todosConfig описывает коллекцию задач пользователя
func (c *Cli) todosConfig(user string) store.Config {
	cfg := store.DefaultConfig("todos_" + user)
	cfg.Less = store.ByCreatedAtDesc
	c.applyRemote(&cfg)
	return cfg
}

// profileConfig описывает single-документ с настройками пользователя
func (c *Cli) profileConfig(user string) store.Config {
	cfg := store.DefaultConfig("profile_" + user)
	cfg.SingleID = "profile"
	cfg.Default = defaultProfile(user)
	c.applyRemote(&cfg)
	return cfg
}

func (c *Cli) applyRemote(cfg *store.Config) {
	cfg.RemoteURL = c.opts.Server
	cfg.Remote = c.opts.Server != ""
}

// withStore initializes a store, runs fn and releases the store
func (c *Cli) withStore(ctx context.Context, cfg store.Config, sub store.Subscriber, fn func(s *store.Store) error) (err error) {
	if err := os.MkdirAll(c.opts.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	s := store.New(cfg, c.openers(c.opts, c.logger), c.logger)
	if sub != nil {
		s.Subscribe(sub)
	}

	if err := s.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.Name, err)
	}
	defer func() {
		if closeErr := s.Deinitialize(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close %s: %w", cfg.Name, closeErr))
		}
	}()

	return fn(s)
}

func (c *Cli) withTodos(ctx context.Context, fn func(s *store.Store, user string) error) error {
	user, err := c.user()
	if err != nil {
		return err
	}
	return c.withStore(ctx, c.todosConfig(user), nil, func(s *store.Store) error {
		return fn(s, user)
	})
}

func (c *Cli) withProfile(ctx context.Context, fn func(s *store.Store) error) error {
	user, err := c.user()
	if err != nil {
		return err
	}
	return c.withStore(ctx, c.profileConfig(user), nil, fn)
}

// Close releases the log file of the last command, if any
func (c *Cli) Close() error {
	return c.teardown()
}

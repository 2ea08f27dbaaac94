package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/aretw0/quicknotes"
	"github.com/aretw0/quicknotes/internal/platform"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	logger     *slog.Logger
	configFile string
}

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own flags and config.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "quicknotes",
		Short: "A small personal note manager",
		Long: `QuickNotes keeps a list of colored notes in a local directory,
a SQLite database or a Redis server, and lets you add, edit, search and sort them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			level := slog.LevelInfo
			if a.v.GetBool("verbose") {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(a.logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: ./quicknotes.yaml or ~/.config/quicknotes/quicknotes.yaml)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("adapter", platform.AdapterFS, "Storage adapter: "+strings.Join(platform.Adapters, ", "))
	flags.StringP("path", "p", "", "Notes location: directory (fs), database file (sqlite) or host:port (redis)")
	flags.String("key", quicknotes.DefaultKey, "Store key the notes are saved under")
	flags.String("codec", "json", "Serialization format: json or yaml")
	flags.String("lang", "en", "Language used to sort titles")
	flags.Bool("versioned", false, "Commit every change to Git (fs adapter)")
	flags.Bool("read-only", false, "Never write to the store")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database number")
	flags.String("redis-prefix", "", "Prefix for every Redis key")
	_ = a.v.BindPFlags(flags)

	rootCmd.AddCommand(
		newAddCmd(a),
		newEditCmd(a),
		newShowCmd(a),
		newRmCmd(a),
		newClearCmd(a),
		newListCmd(a),
		newWatchCmd(a),
		newHistoryCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig layers config file and QUICKNOTES_* environment under the flags.
func (a *app) loadConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("QUICKNOTES")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName("quicknotes")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "quicknotes"))
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// options translates the resolved configuration into notebook options.
func (a *app) options() ([]quicknotes.Option, error) {
	tag, err := language.Parse(a.v.GetString("lang"))
	if err != nil {
		return nil, fmt.Errorf("invalid --lang: %w", err)
	}
	readOnly := a.v.GetBool("read-only")

	opts := []quicknotes.Option{
		quicknotes.WithLogger(a.logger),
		quicknotes.WithAdapter(a.v.GetString("adapter")),
		quicknotes.WithKey(a.v.GetString("key")),
		quicknotes.WithCodec(a.v.GetString("codec")),
		quicknotes.WithLanguage(tag),
		quicknotes.WithVersioning(a.v.GetBool("versioned")),
		quicknotes.WithReadOnly(readOnly),
		quicknotes.WithAutoInit(!readOnly),
		quicknotes.WithRedisAuth(a.v.GetString("redis-password"), a.v.GetInt("redis-db")),
	}
	if prefix := a.v.GetString("redis-prefix"); prefix != "" {
		opts = append(opts, quicknotes.WithRedisPrefix(prefix))
	}
	return opts, nil
}

// uri returns the adapter location. The fs adapter falls back to the
// nearest notes root above the working directory, then to ".".
func (a *app) uri() string {
	if p := a.v.GetString("path"); p != "" {
		return p
	}
	if a.v.GetString("adapter") == platform.AdapterFS {
		if root, err := quicknotes.FindRoot("."); err == nil {
			return root
		}
	}
	return ""
}

// open opens the configured notebook. Callers must Close it.
func (a *app) open(ctx context.Context) (*quicknotes.Notebook, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	nb, err := quicknotes.Open(ctx, a.uri(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	return nb, nil
}

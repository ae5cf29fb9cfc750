package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/liasse/internal/accounts"
	"github.com/cleared-dev/liasse/internal/buildinfo"
	"github.com/cleared-dev/liasse/internal/config"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/reference"
	"github.com/cleared-dev/liasse/internal/statement"
)

// app holds what every subcommand needs once flags and config are resolved.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	system     string

	cfg *config.Config
	sys model.System
	log *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "liasse",
		Short:   "SYSCOHADA financial statements from a trial balance",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), a.log))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "path to liasse.yaml (optional)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level overriding the config (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format overriding the config (text, json)")
	flags.StringVar(&a.system, "system", "", "accounting system overriding the config (normal, smt)")

	rootCmd.AddCommand(
		newComputeCommand(a),
		newSearchCommand(a),
		newLookupCommand(a),
		newChaptersCommand(a),
		newSchemaCommand(a),
		newChartCommand(a),
	)

	return rootCmd
}

// setup resolves the configuration: defaults, then the file, then LIASSE_* variables, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.system != "" {
		cfg.Engine.System = a.system
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.sys, _ = cfg.Engine.SystemValue()
	a.log = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return nil
}

func (a *app) registry() (*accounts.Registry, error) {
	if a.cfg.ChartFile != "" {
		return accounts.Load(a.cfg.ChartFile)
	}
	return accounts.Default()
}

// catalog returns the built-in schemas of the configured system, overridden
// by schemas_dir when set.
func (a *app) catalog() (*statement.Catalog, error) {
	return a.catalogWith(a.cfg.SchemasDir)
}

func (a *app) catalogWith(dir string) (*statement.Catalog, error) {
	cat, err := statement.BuiltinFor(a.sys)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return cat, nil
	}
	return cat.Override(dir)
}

func (a *app) index() (*reference.Index, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	s := a.cfg.Search
	lib := reference.NewLibrary(reference.Embedded(), s.LoadTimeout)
	limits := reference.Limits{
		Default:  s.DefaultLimit,
		Accounts: s.AccountCap,
		Rules:    s.RuleCap,
		Chapters: s.ChapterCap,
	}
	return reference.NewIndex(reg, lib, limits), nil
}

package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"planner/internal/config"
	"planner/internal/engine"
	"planner/internal/logging"
	"planner/internal/storage"
	"planner/internal/ui"
)

const Version = "0.1.0"

// app holds what every subcommand needs once the persistent pre-run has
// loaded config and opened the store.
type app struct {
	configPath  string
	firstLaunch bool
	cfg         config.Config
	log         *log.Logger
	logFile     io.Closer
	store       *storage.Store
}

var (
	flagConfig string
	flagDB     string
	current    app
)

var rootCmd = &cobra.Command{
	Use:               "planner",
	Short:             "Daily planner: a terminal todo list with due dates and categories",
	Long:              "planner keeps a local SQLite todo list. Run it bare for the full-screen dashboard, or use the subcommands from scripts.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := engine.New(current.store, engine.WithLogger(current.log))
		return ui.Run(cmd.Context(), eng, current.cfg, current.configPath, current.firstLaunch)
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $"+config.EnvConfigPath+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database file, overrides db_path from the config")

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newDoneCmd(),
		newRmCmd(),
	)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	teardown()

	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.ResolveConfigPath()
	}
	_, statErr := os.Stat(path)
	firstLaunch := errors.Is(statErr, os.ErrNotExist)

	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	logger, logFile, err := logging.Open(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return err
	}

	store, err := storage.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		_ = logFile.Close()
		return fmt.Errorf("open database: %w", err)
	}
	logger.Debug("opened", "config", path, "db", cfg.DBPath, "first_launch", firstLaunch)

	current = app{
		configPath:  path,
		firstLaunch: firstLaunch,
		cfg:         cfg,
		log:         logger,
		logFile:     logFile,
		store:       store,
	}
	return nil
}

func teardown() {
	if current.store != nil {
		if err := current.store.Close(); err != nil {
			current.log.Error("close database", "err", err)
		}
	}
	if current.logFile != nil {
		_ = current.logFile.Close()
	}
	current = app{}
}

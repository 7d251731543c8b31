package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a1s/gridbuf/internal/config"
	"github.com/a1s/gridbuf/internal/config/data"
	"github.com/a1s/gridbuf/internal/dao"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/a1s/gridbuf/internal/ui"
	"github.com/a1s/gridbuf/internal/view"
)

const (
	appName    = config.AppName
	appVersion = "0.1.0"
)

var (
	gridFlags *data.Flags
	rootCmd   = &cobra.Command{
		Use:   appName,
		Short: "A live grid over a changing collection",
		Long:  `gridbuf lays out rows from a YAML file, an INI file or an S3 prefix as a grid and keeps it in sync as the source changes.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
	sourcesCmd = &cobra.Command{
		Use:   "sources",
		Short: "List supported source kinds",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range dao.ListAccessors() {
				fmt.Println(k)
			}
		},
	}
)

func init() {
	gridFlags = config.NewFlags()
	initGridFlags()
	rootCmd.AddCommand(versionCmd, sourcesCmd)
}

func initGridFlags() {
	rootCmd.Flags().Float32VarP(gridFlags.RefreshRate, "refresh", "r", config.DefaultRefreshRate, "Refresh rate in seconds")
	rootCmd.Flags().StringVarP(gridFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(gridFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().BoolVar(gridFlags.Headless, "headless", false, "Log grid updates instead of drawing them")
	rootCmd.Flags().StringVarP(gridFlags.Source, "source", "s", "", "Row source (file.yaml, file.ini or s3://bucket/prefix)")
	rootCmd.Flags().IntVarP(gridFlags.Columns, "columns", "c", 0, "Grid columns")
	rootCmd.Flags().BoolVar(gridFlags.Synchronous, "sync", false, "Diff updates synchronously")
	rootCmd.Flags().StringVar(gridFlags.SortColumn, "sort", "", "Column to sort rows by")

	// AWS-specific flags
	rootCmd.Flags().StringVar(gridFlags.Profile, "profile", "", "AWS profile to use")
	rootCmd.Flags().StringVar(gridFlags.Region, "region", "", "AWS region to use")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}
	if err := config.InitLogLoc(); err != nil {
		return fmt.Errorf("failed to initialize log location: %w", err)
	}

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(gridFlags); err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(config.AppConfigFile, false)

	logger, logFile, err := config.NewLogger(cfg.Gridbuf.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src := cfg.Gridbuf.CurrentSource()
	accessor, err := dao.AccessorFor(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", src, err)
	}
	logger.Info("Starting", slog.String("version", appVersion), slog.String("source", src.String()))

	if cfg.Gridbuf.UI.Headless {
		return runHeadless(ctx, cfg, accessor, logger)
	}

	app := view.NewApp(cfg, appVersion, logger)
	if err := app.Init(accessor); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run()
}

// runHeadless drives the grid pipeline against a LogGrid until interrupted.
func runHeadless(ctx context.Context, cfg *config.Config, accessor dao.Accessor, logger *slog.Logger) error {
	grid := ui.NewLogGrid(logger)
	b, err := view.NewBrowser(accessor, grid, cfg.Gridbuf, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	b.SetListener(headlessListener{log: logger})
	defer b.Stop()

	if err := b.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	return nil
}

type headlessListener struct {
	log *slog.Logger
}

func (h headlessListener) BrowserLoaded(count int, events *model1.RowEvents) {
	h.log.Info("Grid updated",
		slog.Int("items", count),
		slog.Int("added", events.Count(model1.EventAdd)),
		slog.Int("updated", events.Count(model1.EventUpdate)),
		slog.Int("deleted", events.Count(model1.EventDelete)),
	)
}

func (h headlessListener) BrowserFailed(err error) {
	fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
}

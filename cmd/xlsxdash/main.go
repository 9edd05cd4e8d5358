// Package main provides the CLI entry point for xlsxdash.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlsxdash-go/internal/config"
	"github.com/ukaji3/xlsxdash-go/internal/report"
	"github.com/ukaji3/xlsxdash-go/internal/server"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/catalog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds what every subcommand needs once PersistentPreRunE has run.
type app struct {
	verbose     bool
	dataDir     string
	catalogPath string
	format      string
	addr        string
	outputPath  string

	cfg     *config.Config
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "xlsxdash",
		Short: "Render spreadsheet reports as a chart dashboard",
		Long: `xlsxdash reads one spreadsheet per catalog entry (1.1.xlsx ... 9.2.xlsx)
and renders bar and line charts in a two-column dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding the source spreadsheets (default: XLSXDASH_DATA_DIR or .)")
	rootCmd.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "YAML catalog replacing the built-in one")
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", "Image format: png or svg")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	serveCmd.Flags().StringVar(&a.addr, "addr", "", "Listen address (default: :$PORT)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard as a self-contained HTML file",
		Args:  cobra.NoArgs,
		RunE:  a.runExport,
	}
	exportCmd.Flags().StringVarP(&a.outputPath, "output", "o", "", "Output file path (default: stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog entries",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load and prepare every chart without drawing",
		Args:  cobra.NoArgs,
		RunE:  a.runCheck,
	}

	rootCmd.AddCommand(serveCmd, exportCmd, listCmd, checkCmd)
	return rootCmd
}

// setup loads .env and the environment, applies flag overrides, then builds the logger and catalog.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Render.DataDir = a.dataDir
	}
	if flags.Changed("catalog") {
		cfg.Render.Catalog = a.catalogPath
	}
	if flags.Changed("format") {
		cfg.Render.Format = a.format
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if cfg.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if a.logger, err = zcfg.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if a.catalog, err = catalog.Load(cfg.Render.Catalog); err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		zap.String("data_dir", cfg.Render.DataDir),
		zap.String("catalog", cfg.Render.Catalog),
		zap.String("format", cfg.Render.Format),
		zap.Int("charts", len(a.catalog.Charts)),
	)
	return nil
}

func (a *app) options() xlsxdash.Options {
	opts := a.cfg.RenderOptions()
	opts.Logger = a.logger
	return opts
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	addr := a.addr
	if addr == "" {
		addr = a.cfg.Addr()
	}

	gin.SetMode(a.cfg.Server.GinMode)
	s, err := server.New(server.Config{
		Addr:         addr,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}, a.catalog, a.cfg.RenderOptions(), a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	renderer, err := report.New()
	if err != nil {
		return err
	}
	page := xlsxdash.BuildPage(a.catalog, a.options())

	if a.outputPath == "" {
		return renderer.Write(cmd.OutOrStdout(), page)
	}
	f, err := os.Create(a.outputPath)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := renderer.Write(f, page); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("dashboard exported",
		zap.String("path", a.outputPath),
		zap.Int("rendered", page.Rendered),
		zap.Int("failed", page.Failed),
	)
	return nil
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tFILE\tTITLE")
	opts := a.options()
	for _, spec := range a.catalog.Charts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", spec.Key, spec.Kind, opts.SourceName(spec.Key), spec.Title)
	}
	return w.Flush()
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	failed := checkAll(cmd.OutOrStdout(), a.catalog, a.options())
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(a.catalog.Charts))
	}
	return nil
}

// checkAll reports one line per chart and returns how many failed.
func checkAll(w io.Writer, cat *catalog.Catalog, opts xlsxdash.Options) int {
	failed := 0
	for _, spec := range cat.Charts {
		err := xlsxdash.Check(spec, opts)
		switch {
		case err == nil:
			fmt.Fprintf(w, "ok    %s  %s\n", spec.Key, spec.Title)
		case errors.Is(err, xlsxdash.ErrSourceNotFound):
			failed++
			fmt.Fprintf(w, "FAIL  %s  %s\n", spec.Key, xlsxdash.SourceNotFoundMessage(spec, opts))
		default:
			failed++
			fmt.Fprintf(w, "FAIL  %s  %v\n", spec.Key, err)
		}
	}
	return failed
}

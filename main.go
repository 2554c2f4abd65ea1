// sitekit — multilingual content site toolkit: AI translation of
// Markdown pages with byte-preserving front matter rewriting and
// alternate-link synchronization.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/minios-linux/sitekit/altsync"
	"github.com/minios-linux/sitekit/cache"
	"github.com/minios-linux/sitekit/config"
	"github.com/minios-linux/sitekit/i18n"
	"github.com/minios-linux/sitekit/langmeta"
	"github.com/minios-linux/sitekit/pagefile"
	"github.com/minios-linux/sitekit/provider"
	"github.com/minios-linux/sitekit/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitekit",
		Short: "Multilingual content toolkit with AI translation",
		Long: `sitekit — multilingual content site toolkit.

Translates Markdown pages into the locales their front matter opts in to,
rewrites headers without disturbing a single untouched byte, and keeps
the alternates cross-link map converged across locale siblings.

Commands:
  status      Show configured locales and per-page translation state
  translate   Translate opted-in pages to their target locales
  sync        Converge alternates maps across locale siblings
  version     Show version information

Configuration lives in .sitekit.yaml at the project root; the provider
API key comes from SITEKIT_API_KEY or OPENAI_API_KEY (a .env file is
honored).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newTranslateCmd(),
		newSyncCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured locales and per-page translation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			res := cfg.Resolver()
			contentRoot := filepath.Join(rootDir, cfg.ContentDir)

			fmt.Printf("Locales (in merge order):\n")
			for _, l := range cfg.Locales {
				meta := langmeta.Resolve(l)
				mark := ""
				if l == cfg.DefaultLocale {
					mark = " (default)"
				}
				fmt.Printf("  %s %-6s %s%s\n", meta.Flag, l, meta.Native, mark)
			}

			paths, err := pagefile.Scan(contentRoot)
			if err != nil {
				return err
			}
			var sources, optedOut int
			for _, rel := range paths {
				page, err := pagefile.Load(contentRoot, rel, res)
				if err != nil {
					logWarning("%v", err)
					continue
				}
				if page.Locale != cfg.DefaultLocale {
					continue
				}
				if !page.HasMarker || page.Marker.None() {
					optedOut++
					continue
				}
				sources++
				targets := page.Marker.Resolve(cfg.Locales, page.Locale)
				fmt.Printf("  %-40s → %v\n", rel, targets)
			}
			fmt.Printf("\n%d translation sources, %d pages without opt-in\n", sources, optedOut)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		force         bool
		dryRun        bool
		noSync        bool
		maxConcurrent int
		requestDelay  time.Duration
		model         string
		apiKey        string
		onlyLocales   []string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate opted-in pages to their target locales",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = config.APIKey(rootDir)
			}
			if apiKey == "" && !dryRun {
				return fmt.Errorf("%s", i18n.T("API key is required (set SITEKIT_API_KEY or OPENAI_API_KEY)"))
			}
			if model == "" {
				model = cfg.Provider.Model
			}

			backend := provider.NewOpenAI(provider.OpenAIConfig{
				APIKey:  apiKey,
				Model:   model,
				BaseURL: cfg.Provider.BaseURL,
				Timeout: cfg.Provider.Timeout(),
			})

			opts := translate.Options{
				Provider:      backend,
				Model:         backend.Model(),
				Fields:        cfg.Fields,
				Instruction:   cfg.Prompt,
				Force:         force,
				DryRun:        dryRun,
				MaxConcurrent: maxConcurrent,
				RequestDelay:  requestDelay,
				OnLog:         logInfo,
				OnError:       logError,
			}
			if cfg.Cache.RedisURL != "" {
				c, err := cache.NewRedis(cache.RedisConfig{URL: cfg.Cache.RedisURL, TTL: cfg.Cache.TTL()})
				if err != nil {
					logWarning("cache unavailable: %v", err)
				} else {
					opts.Cache = c
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			contentRoot := filepath.Join(rootDir, cfg.ContentDir)
			res := cfg.Resolver()

			logInfo("%s: %s", i18n.T("Scanning content directory"), contentRoot)
			paths, err := pagefile.Scan(contentRoot)
			if err != nil {
				return err
			}

			units, planned := translate.Plan(contentRoot, res, paths, opts)
			if len(onlyLocales) > 0 {
				units = translate.FilterLocales(units, onlyLocales)
			}
			failed := translate.Failed(planned)
			if n := len(planned) - len(failed); n > 0 {
				logInfo(i18n.N("%d unit skipped (up to date)", "%d units skipped (up to date)", n), n)
			}
			if len(units) == 0 {
				logSuccess(i18n.T("Nothing to translate"))
			} else {
				outcomes := translate.Run(ctx, contentRoot, units, opts)
				runFailed := translate.Failed(outcomes)
				translated := len(outcomes) - len(runFailed)
				logSuccess(i18n.N("%d document translated", "%d documents translated", translated), translated)
				failed = append(failed, runFailed...)
			}
			if len(failed) > 0 {
				logWarning(i18n.N("%d unit failed", "%d units failed", len(failed)), len(failed))
			}

			if noSync || dryRun {
				return nil
			}
			return runSync(cfg, contentRoot)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-translate even when the target is up to date")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and report without calling the provider or writing files")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Skip the alternates synchronization pass")
	cmd.Flags().IntVar(&maxConcurrent, "concurrency", 3, "Maximum concurrent translation units")
	cmd.Flags().DurationVar(&requestDelay, "request-delay", 0, "Delay between launching units")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier (overrides config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key (overrides environment)")
	cmd.Flags().StringSliceVar(&onlyLocales, "locales", nil, "Restrict translation to these target locales")
	return cmd
}

// ---------------------------------------------------------------------------
// sync
// ---------------------------------------------------------------------------

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Converge alternates maps across locale siblings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			return runSync(cfg, filepath.Join(rootDir, cfg.ContentDir))
		},
	}
}

func runSync(cfg *config.Config, contentRoot string) error {
	logInfo(i18n.T("Synchronizing alternate links"))
	paths, err := pagefile.Scan(contentRoot)
	if err != nil {
		return err
	}
	syncer := &altsync.Syncer{
		Root:     contentRoot,
		Resolver: cfg.Resolver(),
		OnLog:    logInfo,
	}
	modified, err := syncer.SyncAll(paths)
	if err != nil {
		return err
	}
	logSuccess(i18n.N("%d document updated", "%d documents updated", len(modified)), len(modified))
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sitekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// Package main provides the CLI entrypoint for supertype.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/config"
	"github.com/verte-zerg/supertype/internal/logging"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/passage"
	"github.com/verte-zerg/supertype/internal/progression"
	"github.com/verte-zerg/supertype/internal/scoring"
	"github.com/verte-zerg/supertype/internal/store"
	"github.com/verte-zerg/supertype/internal/tui"
)

const (
	defaultTier      = 1
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

var (
	practiceTier     int
	practiceSmart    bool
	practiceSeed     int64
	practicePassages string
)

func main() {
	if err := config.LoadEnv(); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "supertype",
		Short:         "Gamified TUI typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceTier, "tier", defaultTier, "challenge tier to play")
	rootCmd.Flags().BoolVar(&practiceSmart, "smart", false, "generate passages from your recorded typing errors")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for passage generation (0 = time based)")
	rootCmd.Flags().StringVar(&practicePassages, "passages", "", "file with extra passages, one per line")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newTiersCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newSoundCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// app bundles the opened persistence and progression components.
type app struct {
	logger   *slog.Logger
	tiers    catalog.Catalog
	engine   *progression.Engine
	store    *store.Store
	profiles *store.ProfileRepository
	errors   *store.ErrorLog
	tracker  *progression.Tracker
	closers  []io.Closer
}

func openApp(fileCfg config.FileConfig) (*app, error) {
	a := &app{tiers: catalog.Default()}

	logger, logCloser, err := logging.OpenFile(config.DefaultLogPath(), logConfig(fileCfg.Log))
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		logger = logging.Discard()
	} else {
		a.closers = append(a.closers, logCloser)
	}
	a.logger = logger

	engine, err := buildEngine(fileCfg.Progression)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st
	a.closers = append([]io.Closer{st}, a.closers...)
	a.profiles = store.NewProfileRepository(st, engine, logger)
	a.errors = store.NewErrorLog(st, store.DefaultErrorLogLimit, logger)
	a.tracker = progression.NewTracker(a.profiles, engine)
	return a, nil
}

// Close releases the store and log file.
func (a *app) Close() {
	for _, c := range a.closers {
		if cerr := c.Close(); cerr != nil {
			logErrf("failed to close: %v\n", cerr)
		}
	}
	a.closers = nil
}

func loadApp() (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openApp(fileCfg)
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "tier", &practiceTier, fileCfg.Practice.Tier)
	applyBoolConfig(cmd, "smart", &practiceSmart, fileCfg.Practice.Smart)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyStringConfig(cmd, "passages", &practicePassages, fileCfg.Practice.Passages)

	cfg := model.Config{
		Tier:         practiceTier,
		Smart:        practiceSmart,
		Seed:         practiceSeed,
		PassagesPath: practicePassages,
	}

	a, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := validateConfig(cfg, a.tiers); err != nil {
		return err
	}

	tiers := a.tiers
	if cfg.PassagesPath != "" {
		extra, err := passage.LoadPassages(cfg.PassagesPath)
		if err != nil {
			return err
		}
		tiers = tiers.WithPassages(extra)
	}

	ctx := context.Background()
	profile := a.tracker.Profile(ctx)
	if !profile.HasTier(cfg.Tier) {
		return lockedTierError(cfg.Tier, profile.Level, a.engine.Unlocks())
	}

	calc := scoring.NewCalculator(tiers,
		scoring.WithParams(scoringParams(fileCfg.Scoring)),
		scoring.WithErrorSink(a.errors),
		scoring.WithLogger(a.logger),
	)
	m := tui.NewModel(cfg, tui.Deps{
		Tiers:      tiers,
		Generator:  passage.New(cfg.Seed, tiers),
		Calculator: calc,
		Tracker:    a.tracker,
		Errors:     a.errors,
		Logger:     a.logger,
	})
	a.logger.Info("practice started", "tier", cfg.Tier, "smart", cfg.Smart)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func lockedTierError(tier, level int, rules []progression.UnlockRule) error {
	need, ok := progression.UnlockLevel(rules, tier)
	if !ok {
		return fmt.Errorf("tier %d has no unlock rule", tier)
	}
	return fmt.Errorf("tier %d is locked: reach level %d to unlock it (current level %d)", tier, need, level)
}

func buildEngine(cfg config.ProgressionConfig) (*progression.Engine, error) {
	curve := progression.DefaultCurve
	if cfg.CurveBase != nil {
		curve.Base = *cfg.CurveBase
	}
	if cfg.CurveGrowth != nil {
		curve.Growth = *cfg.CurveGrowth
	}
	if !curve.Valid() {
		return nil, fmt.Errorf("invalid level curve: curve-base and curve-growth must be > 0")
	}
	opts := []progression.Option{progression.WithCurve(curve)}
	if len(cfg.UnlockLevels) > 0 {
		opts = append(opts, progression.WithUnlocks(progression.UnlocksFromLevels(cfg.UnlockLevels)))
	}
	if cfg.HistoryLimit != nil {
		if *cfg.HistoryLimit <= 0 {
			return nil, fmt.Errorf("history-limit must be > 0")
		}
		opts = append(opts, progression.WithHistoryLimit(*cfg.HistoryLimit))
	}
	return progression.New(opts...), nil
}

func scoringParams(cfg config.ScoringConfig) scoring.Params {
	p := scoring.DefaultParams
	if cfg.SpeedThreshold != nil {
		p.SpeedThreshold = *cfg.SpeedThreshold
	}
	if cfg.SpeedMultiplier != nil {
		p.SpeedMultiplier = *cfg.SpeedMultiplier
	}
	if cfg.AccuracyThreshold != nil {
		p.AccuracyThreshold = *cfg.AccuracyThreshold
	}
	if cfg.AccuracyMultiplier != nil {
		p.AccuracyMultiplier = *cfg.AccuracyMultiplier
	}
	return p
}

func logConfig(cfg config.LogConfig) logging.Config {
	out := logging.Config{Level: defaultLogLevel, Format: defaultLogFormat}
	if cfg.Level != nil {
		out.Level = *cfg.Level
	}
	if cfg.Format != nil {
		out.Format = *cfg.Format
	}
	return out
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	p := scoring.DefaultParams
	return fmt.Sprintf(`# supertype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# tier = %d                  # Challenge tier to play
# smart = false              # Generate passages from recorded typing errors
# seed = 0                   # Random seed (0 = time based)
# passages = ""              # File with extra passages, one per line

[progression]
# curve-base = %d           # XP cost of each level
# curve-growth = %d          # Extra XP per level, squared
# unlock-levels = [1, 2, 4, 7, 10, 15]   # Minimum level per tier
# history-limit = %d         # Test results kept in the profile

[scoring]
# speed-threshold = %d       # WPM above which the speed bonus applies
# speed-multiplier = %.1f    # XP per WPM above the threshold
# accuracy-threshold = %d    # Accuracy above which the accuracy bonus applies
# accuracy-multiplier = %.1f # XP per accuracy point above the threshold

[log]
# level = %q              # debug, info, warn, error
# format = %q             # text or json
`,
		defaultTier,
		progression.DefaultCurve.Base,
		progression.DefaultCurve.Growth,
		progression.DefaultHistoryLimit,
		p.SpeedThreshold,
		p.SpeedMultiplier,
		p.AccuracyThreshold,
		p.AccuracyMultiplier,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config, tiers catalog.Catalog) error {
	if _, ok := tiers.Lookup(cfg.Tier); !ok {
		return fmt.Errorf("--tier must be between 1 and %d", tiers.Len())
	}
	if cfg.PassagesPath != "" {
		if _, err := os.Stat(cfg.PassagesPath); err != nil {
			return fmt.Errorf("--passages: %w", err)
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

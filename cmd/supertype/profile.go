package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/profileui"
	"github.com/verte-zerg/supertype/internal/stats"
	"github.com/verte-zerg/supertype/internal/store"
)

const historyMaxCell = 40

var (
	historyLast        int
	historyCurveWindow int

	resetYes bool

	renameUsername string
	renameAvatar   string

	soundEnabled bool
	soundVolume  float64

	exportAll bool
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Browse your profile, history and achievements",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
}

func runProfileCmd(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	report := stats.BuildReport(ctx, a.tracker.Profile(ctx), a.errors, model.HistoryFilter{})
	m := profileui.NewModel(report, profileui.Options{
		Tiers:        a.tiers,
		Unlocks:      a.engine.Unlocks(),
		Achievements: a.engine.Achievements(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run profile TUI: %w", err)
	}
	return nil
}

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List challenge tiers and their unlock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()
			p := a.tracker.Profile(context.Background())
			if err := stats.RenderTiers(cmd.OutOrStdout(), p, a.tiers, a.engine.Unlocks()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()
			p := a.tracker.Profile(context.Background())
			if err := stats.RenderAchievements(cmd.OutOrStdout(), p, a.engine.Achievements()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tests, learning curves and problem characters",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 10, "limit to last N tests (0 = all)")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", stats.DefaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	filter := model.HistoryFilter{Last: historyLast, CurveWindow: historyCurveWindow}
	report := stats.BuildReport(ctx, a.tracker.Profile(ctx), a.errors, filter)
	if err := stats.RenderReport(cmd.OutOrStdout(), report, a.tiers, tableMaxCell()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// tableMaxCell caps table cells on narrow terminals; 0 means no cap.
func tableMaxCell() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return historyMaxCell
	}
	return max(8, min(historyMaxCell, width/4))
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the profile to level 1",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Reset all progress? This cannot be undone. [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Reset cancelled.")
			return nil
		}
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	p := a.tracker.Reset(ctx)
	if err := a.errors.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear typing errors: %w", err)
	}
	a.logger.Info("profile reset", "profile", p.ID)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Profile reset. %s %s is back at level %d.\n", p.Avatar, p.Username, p.Level); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change username or avatar",
		Args:  cobra.NoArgs,
		RunE:  runRenameCmd,
	}
	cmd.Flags().StringVar(&renameUsername, "username", "", "new username")
	cmd.Flags().StringVar(&renameAvatar, "avatar", "", "new avatar (emoji or short text)")
	return cmd
}

func runRenameCmd(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("username") && !cmd.Flags().Changed("avatar") {
		return fmt.Errorf("nothing to change: pass --username and/or --avatar")
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.tracker.Update(context.Background(), func(p *model.UserProfile) error {
		if cmd.Flags().Changed("username") {
			name := strings.TrimSpace(renameUsername)
			if name == "" {
				return fmt.Errorf("--username must not be empty")
			}
			p.Username = name
		}
		if cmd.Flags().Changed("avatar") {
			avatar := strings.TrimSpace(renameAvatar)
			if avatar == "" {
				return fmt.Errorf("--avatar must not be empty")
			}
			p.Avatar = avatar
		}
		return nil
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s %s\n", p.Avatar, p.Username); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sound",
		Short: "Show or change sound settings",
		Args:  cobra.NoArgs,
		RunE:  runSoundCmd,
	}
	cmd.Flags().BoolVar(&soundEnabled, "enabled", true, "enable sound effects")
	cmd.Flags().Float64Var(&soundVolume, "volume", 0.3, "sound volume (0-1)")
	return cmd
}

func runSoundCmd(cmd *cobra.Command, _ []string) error {
	volumeChanged := cmd.Flags().Changed("volume")
	if volumeChanged {
		if err := validateVolume(soundVolume); err != nil {
			return err
		}
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.tracker.Update(context.Background(), func(p *model.UserProfile) error {
		if cmd.Flags().Changed("enabled") {
			p.SoundSettings.Enabled = soundEnabled
		}
		if volumeChanged {
			p.SoundSettings.Volume = soundVolume
		}
		return nil
	})
	if err != nil {
		return err
	}
	state := "off"
	if p.SoundSettings.Enabled {
		state = "on"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Sound: %s, volume %.2f\n", state, p.SoundSettings.Volume); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateVolume(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored profile as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().BoolVar(&exportAll, "all", false, "print every stored document, keyed by name")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	// Load first so a missing profile is created before export.
	a.tracker.Profile(ctx)
	if exportAll {
		return writeAllDocuments(ctx, a.store, cmd.OutOrStdout())
	}
	raw, err := a.profiles.Raw(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(raw), "", "  "); err != nil {
		return fmt.Errorf("stored profile is not valid JSON: %w", err)
	}
	out.WriteByte('\n')
	if _, err := out.WriteTo(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeAllDocuments prints every stored key as one JSON object.
// Values that are not JSON are emitted as strings.
func writeAllDocuments(ctx context.Context, st *store.Store, w io.Writer) error {
	keys, err := st.Keys(ctx)
	if err != nil {
		return err
	}
	docs := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, err := st.Get(ctx, key)
		if err != nil {
			return err
		}
		if json.Valid([]byte(value)) {
			docs[key] = json.RawMessage(value)
			continue
		}
		quoted, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		docs[key] = quoted
	}
	out, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

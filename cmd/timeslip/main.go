// timeslip is a terminal platformer built around a time-rewind engine.
//
// Usage:
//
//	timeslip                   - Start the level picker
//	timeslip list              - List available levels
//	timeslip play <level>      - Play a level
//	timeslip menu              - Start the level picker
//	timeslip serve             - Start SSH server for remote play
//	timeslip scores <level>    - Show high scores and rewind stats
//	timeslip config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed
//	--db <path>           - Set database path (default: ~/.timeslip/scores.db)
//	--config <path>       - Use a custom config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--debug               - Log rewind engine activity to ~/.timeslip/debug.log
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/games/platformer"
	"github.com/vovakirdan/timeslip/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagDebug      bool

	// debugLog is set by --debug and shared by the levels and the platform.
	debugLog *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "timeslip",
	Short: "Timeslip - a terminal platformer where you can rewind time",
	Long: `Timeslip is a small platformer played in the terminal. Hold R to
rewind the world: every body, enemy and fireball runs backwards while
your mana lasts.

Available commands:
  list     - Show all available levels
  play     - Play a specific level directly
  menu     - Interactive level picker (default)
  serve    - Start SSH server for remote play
  scores   - View high scores and rewind stats
  config   - Print the effective configuration

Examples:
  timeslip
  timeslip play timeslip
  timeslip play playground --difficulty easy
  timeslip serve --ssh :2222 --metrics :9090
  TIMESLIP_REWIND_SPEED_MULTIPLIER=2 timeslip play timeslip`,
	PersistentPreRunE: setupGames,
	Run:               runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.timeslip/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write rewind engine debug output to ~/.timeslip/debug.log")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setupGames hands the global flags to the levels before any of them is
// created.
func setupGames(_ *cobra.Command, _ []string) error {
	if flagDifficulty != "" {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
	}
	platformer.SetConfigPath(flagConfig)
	platformer.SetDifficultyPreset(flagDifficulty)

	if flagDebug {
		logger, err := debugLogger()
		if err != nil {
			return err
		}
		debugLog = logger
		platformer.SetLogger(logger)
	}
	return nil
}

// debugLogger writes to a file: the terminal belongs to the game.
func debugLogger() (*log.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".timeslip")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open debug log: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.DebugLevel,
		Prefix:          "timeslip",
	})
	return logger, nil
}

// runtimeConfig builds the runtime config from the terminal size and the
// global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// modelOptions returns the options shared by every locally played level.
// A broken config only costs the custom hold window; the level itself
// reports the error.
func modelOptions() []tui.ModelOption {
	var opts []tui.ModelOption
	if cfg, err := config.Load(flagConfig); err == nil {
		opts = append(opts, tui.WithHoldWindow(time.Duration(cfg.Rewind.HoldWindowMs)*time.Millisecond))
	}
	if debugLog != nil {
		opts = append(opts, tui.WithLogger(debugLog))
	}
	return opts
}

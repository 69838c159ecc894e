package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/timeslip/internal/platform/tui"
	"github.com/vovakirdan/timeslip/internal/registry"
	"github.com/vovakirdan/timeslip/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Play a level",
	Long: `Start playing the specified level.

Controls:
  A/D, Left/Right  - Move
  Space/W/Up       - Jump
  J/X              - Attack
  R (hold)         - Rewind time; restart after game over
  P                - Pause
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Rewinding costs mana. Orbs refill it.

Difficulty options:
  easy   - Slow enemies, progresses to max
  normal - Starts at 30% difficulty
  hard   - Starts at 70% difficulty
  fixed  - No progression

Examples:
  timeslip play timeslip
  timeslip play playground --difficulty easy
  timeslip play timeslip --config ./my-timeslip.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	levelID := args[0]

	if !registry.Exists(levelID) {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'timeslip list' to see available levels.")
		os.Exit(1)
	}

	game, err := registry.Create(levelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating level: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the level still works
		store = nil
	}

	runErr := tui.Run(game, store, runtimeConfig(), modelOptions()...)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running level: %v\n", runErr)
		os.Exit(1)
	}
}

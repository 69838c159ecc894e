package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/timeslip/internal/registry"
	"github.com/vovakirdan/timeslip/internal/storage"
)

var flagScoresRuns int

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show high scores and rewind stats for a level",
	Long: `Display the top 10 high scores for the specified level, how much
time was rewound on the way, and the most recent runs.

Examples:
  timeslip scores timeslip
  timeslip scores playground --runs 10`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresRuns, "runs", 5, "Number of recent runs to show (0 hides them)")
}

func runScores(_ *cobra.Command, args []string) {
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
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(levelID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'timeslip play %s' to set the first high score!\n", levelID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-7s  %-8s  %s\n", "Rank", "Score", "Rewinds", "Rewound", "Date")
	fmt.Printf("  %-4s  %-8s  %-7s  %-8s  %s\n", "----", "-----", "-------", "-------", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-7d  %-8s  %s\n",
			i+1, entry.Score, entry.Rewinds,
			fmt.Sprintf("%.1fs", entry.SecondsRewound),
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(levelID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Won: %d  Rewinds: %d  Rewound: %.1fs\n",
			stats.HighScore, stats.Runs, stats.Wins, stats.Rewinds, stats.SecondsRewound)
	}

	if flagScoresRuns <= 0 {
		return
	}
	runs, err := store.RecentRuns(levelID, flagScoresRuns)
	if err != nil || len(runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %s  %-4s  %6d  %3d rewinds  %6.1fs played  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), result, r.Score, r.Rewinds,
			r.Duration.Seconds(), r.SessionID[:8])
	}
}

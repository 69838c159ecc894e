package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("timeslip", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("timeslip", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("timeslip", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different game
	_, err = store.SaveScore("playground", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for timeslip
	scores, err := store.TopScores("timeslip", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for playground
	playgroundScores, err := store.TopScores("playground", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(playgroundScores) != 1 {
		t.Errorf("Expected 1 playground score, got %d", len(playgroundScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("timeslip")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("timeslip", 100)
	store.SaveScore("timeslip", 300)
	store.SaveScore("timeslip", 200)

	high, err = store.HighScore("timeslip")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("timeslip", 100)
	store.SaveScore("timeslip", 200)
	store.SaveScore("playground", 300)

	// Clear only timeslip scores
	err = store.ClearScores("timeslip")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// Timeslip should be empty
	timeslipScores, _ := store.TopScores("timeslip", 10)
	if len(timeslipScores) != 0 {
		t.Errorf("Expected 0 timeslip scores after clear, got %d", len(timeslipScores))
	}

	// Playground should still have scores
	playgroundScores, _ := store.TopScores("playground", 10)
	if len(playgroundScores) != 1 {
		t.Errorf("Playground scores should not be affected by clearing timeslip")
	}
}

func TestStoreAllScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many scores
	for i := 0; i < 20; i++ {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	run := RunResult{
		GameID:         "timeslip",
		Score:          240,
		Won:            true,
		Rewinds:        3,
		SecondsRewound: 4.5,
		Duration:       90 * time.Second,
	}
	id, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() id %q is not a UUID: %v", id, err)
	}

	got, err := store.RunByID(id)
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v", got, err)
	}
	if got.RunResult != run {
		t.Errorf("RunByID() = %+v, expected %+v", got.RunResult, run)
	}

	// The run also counts as a score, carrying its rewind columns.
	scores, err := store.TopScores("timeslip", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 240 || scores[0].Rewinds != 3 || scores[0].SecondsRewound != 4.5 {
		t.Errorf("TopScores() = %+v", scores)
	}
	if scores[0].ID != got.ScoreID {
		t.Errorf("score id %d, run references %d", scores[0].ID, got.ScoreID)
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(uuid.NewString())
	if err != nil || got != nil {
		t.Errorf("RunByID(unknown) = %v, %v; expected nil, nil", got, err)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if _, err := store.SaveRun(RunResult{GameID: "timeslip", Score: i * 10, Rewinds: i}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	store.SaveRun(RunResult{GameID: "playground", Score: 1})

	runs, err := store.RecentRuns("timeslip", 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	// Newest first; all rows share a second so the score id breaks the tie.
	if runs[0].Rewinds != 4 || runs[2].Rewinds != 2 {
		t.Errorf("RecentRuns() order = %d, %d, %d", runs[0].Rewinds, runs[1].Rewinds, runs[2].Rewinds)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("timeslip", 100)
	store.SaveRun(RunResult{GameID: "timeslip", Score: 300, Won: true, Rewinds: 2, SecondsRewound: 1.5})
	store.SaveRun(RunResult{GameID: "timeslip", Score: 200, Rewinds: 5, SecondsRewound: 3})

	stats, err := store.GetGameStats("timeslip")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 300 || stats.TotalScore != 600 {
		t.Errorf("score stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, expected 200", stats.AvgScore)
	}
	if stats.Runs != 2 || stats.Wins != 1 || stats.Rewinds != 7 || stats.SecondsRewound != 4.5 {
		t.Errorf("rewind stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 1 || all["timeslip"].Rewinds != 7 {
		t.Errorf("GetAllGamesStats() = %+v", all)
	}

	empty, err := store.GetGameStats("playground")
	if err != nil || empty.GamesCount != 0 || empty.Runs != 0 {
		t.Errorf("GetGameStats(empty) = %+v, %v", empty, err)
	}
}

func TestStoreClearScoresRemovesRuns(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveRun(RunResult{GameID: "timeslip", Score: 10, Rewinds: 1})
	if err := store.ClearScores("timeslip"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if run, _ := store.RunByID(id); run != nil {
		t.Errorf("run survived ClearScores: %+v", run)
	}
}

package platformer

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr string
	}{
		{name: "valid", lines: []string{"#P.S#", "#^oE#", "#####"}},
		{name: "spaces are empty", lines: []string{"# P #", "#####"}},
		{name: "empty", lines: nil, wantErr: "empty"},
		{name: "no player", lines: []string{"#...#", "#####"}, wantErr: "no player"},
		{name: "two players", lines: []string{"#P.P#", "#####"}, wantErr: "more than one"},
		{name: "unknown tile", lines: []string{"#P.X#", "#####"}, wantErr: "unknown tile"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLevel("test", "Test", tc.lines)
			switch {
			case tc.wantErr == "" && err != nil:
				t.Fatalf("ParseLevel() error: %v", err)
			case tc.wantErr != "" && err == nil:
				t.Fatalf("ParseLevel() succeeded, expected error containing %q", tc.wantErr)
			case tc.wantErr != "" && !strings.Contains(err.Error(), tc.wantErr):
				t.Errorf("ParseLevel() error = %v, expected %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseLevelContents(t *testing.T) {
	level, err := ParseLevel("test", "Test", []string{
		"#P.S-.#",
		"#^o..E",
		"#######",
	})
	if err != nil {
		t.Fatalf("ParseLevel() error: %v", err)
	}

	if level.Width != 7 || level.Height != 3 {
		t.Errorf("size = %dx%d, expected 7x3", level.Width, level.Height)
	}
	if level.PlayerX != 1 || level.PlayerY != 0 {
		t.Errorf("player spawn = (%d, %d), expected (1, 0)", level.PlayerX, level.PlayerY)
	}
	if len(level.Spawns) != 3 {
		t.Fatalf("len(Spawns) = %d, expected 3", len(level.Spawns))
	}
	if level.Spawns[0] != (Spawn{Kind: 'S', X: 3, Y: 0}) {
		t.Errorf("Spawns[0] = %+v, expected slime at (3, 0)", level.Spawns[0])
	}

	tiles := []struct {
		x, y     int
		expected Tile
	}{
		{0, 0, TileSolid},
		{1, 0, TileEmpty}, // Spawn markers leave empty tiles
		{1, 1, TileSpikes},
		{5, 1, TileExit},
		{6, 1, TileEmpty}, // Short rows are padded
	}
	for _, tc := range tiles {
		if got := level.At(tc.x, tc.y); got != tc.expected {
			t.Errorf("At(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
		}
	}
}

func TestLevelAtOutside(t *testing.T) {
	level, err := ParseLevel("test", "Test", []string{"P..", "..."})
	if err != nil {
		t.Fatalf("ParseLevel() error: %v", err)
	}

	if !level.Solid(-1, 0) || !level.Solid(3, 0) || !level.Solid(0, -1) {
		t.Errorf("left, right and top edges should be solid")
	}
	if level.At(0, 2) != TileEmpty {
		t.Errorf("below the map should be empty")
	}
}

func TestLoadLevel(t *testing.T) {
	for id := range builtinLevels {
		level, err := LoadLevel(id)
		if err != nil {
			t.Errorf("LoadLevel(%q) error: %v", id, err)
			continue
		}
		if level.Name == "" {
			t.Errorf("level %q has no name", id)
		}
	}

	if _, err := LoadLevel("missing"); err == nil {
		t.Error("LoadLevel(missing) should fail")
	}
}

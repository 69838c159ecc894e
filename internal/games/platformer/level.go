// Package platformer implements timeslip, a side-scrolling platformer whose
// player can hold a key to rewind recent history.
package platformer

import "fmt"

// Tile is one static cell of a level.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileSolid
	TileSpikes
	TileExit
)

// Spawn describes a dynamic object found in the level map.
type Spawn struct {
	Kind rune // 'S' slime, 'o' orb, '-' moving platform
	X, Y int
}

// Level is a parsed level: static tiles plus spawn points for dynamic
// objects. Coordinates are tiles with y growing downward.
type Level struct {
	ID     string
	Name   string
	Width  int
	Height int
	Tiles  [][]Tile // [row][col]

	PlayerX, PlayerY int
	Spawns           []Spawn
}

// ParseLevel creates a Level from an ASCII map.
// Characters:
//
//	'#' = solid ground
//	'.' or ' ' = empty
//	'P' = player spawn (exactly one)
//	'S' = slime
//	'o' = mana orb
//	'-' = moving platform (travels horizontally between solid tiles)
//	'^' = spikes
//	'E' = exit
func ParseLevel(id, name string, lines []string) (*Level, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("platformer: level %q is empty", id)
	}

	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, len(line))
	}

	level := &Level{
		ID:      id,
		Name:    name,
		Width:   maxWidth,
		Height:  len(lines),
		Tiles:   make([][]Tile, len(lines)),
		PlayerX: -1,
	}

	for row, line := range lines {
		level.Tiles[row] = make([]Tile, maxWidth)
		for col := range maxWidth {
			var ch byte = '.'
			if col < len(line) {
				ch = line[col]
			}

			switch ch {
			case '#':
				level.Tiles[row][col] = TileSolid
			case '^':
				level.Tiles[row][col] = TileSpikes
			case 'E':
				level.Tiles[row][col] = TileExit
			case 'P':
				if level.PlayerX >= 0 {
					return nil, fmt.Errorf("platformer: level %q has more than one player spawn", id)
				}
				level.PlayerX, level.PlayerY = col, row
			case 'S', 'o', '-':
				level.Spawns = append(level.Spawns, Spawn{Kind: rune(ch), X: col, Y: row})
			case '.', ' ':
			default:
				return nil, fmt.Errorf("platformer: level %q: unknown tile %q at %d,%d", id, ch, col, row)
			}
		}
	}

	if level.PlayerX < 0 {
		return nil, fmt.Errorf("platformer: level %q has no player spawn", id)
	}
	return level, nil
}

// At returns the tile at (x, y). Outside the left, right and top edges is
// solid so nothing leaves the map sideways; below the map is empty so
// bodies can fall out.
func (l *Level) At(x, y int) Tile {
	if x < 0 || x >= l.Width || y < 0 {
		return TileSolid
	}
	if y >= l.Height {
		return TileEmpty
	}
	return l.Tiles[y][x]
}

// Solid reports whether (x, y) blocks movement.
func (l *Level) Solid(x, y int) bool {
	return l.At(x, y) == TileSolid
}

var builtinLevels = map[string][]string{
	"timeslip": {
		"#..........................................................................................#",
		"#..........................................................................................#",
		"#..........................................................................................#",
		"#..........................................................................................#",
		"#......................................................o...................................#",
		"#...............o....................o...................................o.................#",
		"#.............######...............#####..........-....................#####...............#",
		"#..........................................................................................#",
		"#..P.....................S....o...............S.................S...............S.......E..#",
		"###############....################.....#############.....#############.....################",
		"###############^^^^################^^^^^#############^^^^^#############^^^^^################",
		"############################################################################################",
	},
	"playground": {
		"#..................................................#",
		"#..................................................#",
		"#..........o..............o..............o.........#",
		"#.......#######......-...........-.......#####.....#",
		"#..................................................#",
		"#..P..........................o....................#",
		"##########.....##########...#######......###########",
		"##########^^^^^##########^^^#######^^^^^^###########",
		"####################################################",
	},
}

var levelNames = map[string]string{
	"timeslip":   "Timeslip",
	"playground": "Rewind Playground",
}

// LoadLevel parses a built-in level by ID.
func LoadLevel(id string) (*Level, error) {
	lines, ok := builtinLevels[id]
	if !ok {
		return nil, fmt.Errorf("platformer: unknown level %q", id)
	}
	return ParseLevel(id, levelNames[id], lines)
}

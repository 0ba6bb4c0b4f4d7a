package snake

import "github.com/lab1702/minigames-server/internal/ids"

// allDirections lists every direction in a fixed order so bot choices over
// ties are deterministic given the same RNG draw sequence.
var allDirections = [4]Direction{Up, Down, Left, Right}

func safeDirections(s *State, sn *Snake) []Direction {
	var safe []Direction
	for _, d := range allDirections {
		if d == sn.Dir.opposite() {
			continue
		}
		dx, dy := d.delta()
		head := sn.Body[0]
		nx, ny := head.X+dx, head.Y+dy
		if s.Settings.WallPolicy == WallWrapAround {
			nx = ((nx % s.Settings.Width) + s.Settings.Width) % s.Settings.Width
			ny = ((ny % s.Settings.Height) + s.Settings.Height) % s.Settings.Height
		} else if nx < 0 || nx >= s.Settings.Width || ny < 0 || ny >= s.Settings.Height {
			continue
		}
		c := Cell{X: nx, Y: ny}
		if occupied(s, c) && !s.Food[c] {
			continue
		}
		safe = append(safe, d)
	}
	return safe
}

func nonOppositeDirections(cur Direction) []Direction {
	var out []Direction
	for _, d := range allDirections {
		if d != cur.opposite() {
			out = append(out, d)
		}
	}
	return out
}

// CalculateBotMove computes the next command for a bot-controlled snake
// according to its BotPolicy, or nil if the bot has no living snake.
func CalculateBotMove(s *State, botPlayer ids.PlayerId, policy BotPolicy, r RNG) *Command {
	sn := s.findSnake(botPlayer)
	if sn == nil || !sn.Alive {
		return nil
	}
	switch policy {
	case BotEfficient:
		if d, ok := efficientMove(s, sn); ok {
			return &Command{Direction: d}
		}
		fallthrough
	default:
		return &Command{Direction: randomMove(s, sn, r)}
	}
}

func randomMove(s *State, sn *Snake, r RNG) Direction {
	safe := safeDirections(s, sn)
	if len(safe) == 0 {
		safe = nonOppositeDirections(sn.Dir)
	}
	return safe[r.Intn(len(safe))]
}

// efficientMove greedily steers toward the nearest food using Manhattan
// distance that accounts for wrap-around, restricted to safe cells.
func efficientMove(s *State, sn *Snake) (Direction, bool) {
	if len(s.Food) == 0 {
		return 0, false
	}
	safe := safeDirections(s, sn)
	if len(safe) == 0 {
		return 0, false
	}

	head := sn.Body[0]
	var nearest Cell
	best := -1
	for f := range s.Food {
		d := wrapDistance(s, head, f)
		if best == -1 || d < best {
			best = d
			nearest = f
		}
	}

	bestDir := safe[0]
	bestDist := -1
	for _, d := range safe {
		dx, dy := d.delta()
		next := Cell{X: head.X + dx, Y: head.Y + dy}
		if s.Settings.WallPolicy == WallWrapAround {
			next.X = ((next.X % s.Settings.Width) + s.Settings.Width) % s.Settings.Width
			next.Y = ((next.Y % s.Settings.Height) + s.Settings.Height) % s.Settings.Height
		}
		dist := wrapDistance(s, next, nearest)
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			bestDir = d
		}
	}
	return bestDir, true
}

func wrapDistance(s *State, a, b Cell) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if s.Settings.WallPolicy == WallWrapAround {
		if wx := s.Settings.Width - dx; wx < dx {
			dx = wx
		}
		if wy := s.Settings.Height - dy; wy < dy {
			dy = wy
		}
	}
	return dx + dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

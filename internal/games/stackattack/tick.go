package stackattack

// StepEvents carries per-tick side effects useful for diagnostics; the
// broadcast snapshot carries the authoritative state.
type StepEvents struct {
	LinesClearedThisTick int
}

// Tick advances the game by one discrete 200ms step (spec.md 4.7.5):
// worker vertical motion, block gravity, crane drop, line clearing, and
// finally terminal detection in ascending player-index order (the
// resolution of Open Question D.3).
func Tick(s *State, r RNG) StepEvents {
	s.Tick++
	advanceWorkers(s)
	advanceBlocks(s)
	maybeDropBlock(s, r)
	cleared := clearFullLines(s)
	detectTerminal(s)
	return StepEvents{LinesClearedThisTick: cleared}
}

func blockSupported(s *State, row, col int) bool {
	if row+1 >= FieldHeight {
		return true
	}
	below := s.Field[row+1][col]
	return below.Present && !below.Falling
}

// advanceWorkers steps each alive worker's vertical motion: a Jump rises
// one row then becomes Falling; a Falling worker continues down while the
// cell below is clear, landing as Grounded otherwise; a Grounded worker
// whose support vanished starts Falling.
func advanceWorkers(s *State) {
	for _, w := range s.Workers {
		if !w.Alive {
			continue
		}
		switch w.State {
		case Jumping:
			if inField(w.Row-1, w.Col) && !s.Field[w.Row-1][w.Col].Present {
				w.Row--
			}
			w.State = Falling
		case Falling:
			if inField(w.Row+1, w.Col) && !s.Field[w.Row+1][w.Col].Present {
				w.Row++
			} else {
				w.State = Grounded
			}
		default: // Grounded
			if inField(w.Row+1, w.Col) && !s.Field[w.Row+1][w.Col].Present {
				w.State = Falling
			}
		}
	}
}

// advanceBlocks moves every unsupported block down one row, bottom row
// first so a falling column doesn't skip two rows in one tick.
func advanceBlocks(s *State) {
	for row := FieldHeight - 1; row >= 0; row-- {
		for col := 0; col < FieldWidth; col++ {
			b := s.Field[row][col]
			if !b.Present {
				continue
			}
			if blockSupported(s, row, col) {
				s.Field[row][col].Falling = false
				continue
			}
			s.Field[row+1][col] = Block{Present: true, Falling: true, PatternID: b.PatternID}
			s.Field[row][col] = Block{}
		}
	}
}

// maybeDropBlock has the crane release a new falling block at the ceiling
// row every CraneIntervalTk ticks, cycling through columns.
func maybeDropBlock(s *State, r RNG) {
	if s.Settings.CraneIntervalTk <= 0 || int(s.Tick)%s.Settings.CraneIntervalTk != 0 {
		return
	}
	col := s.CraneCol % FieldWidth
	s.CraneCol++
	if s.Field[0][col].Present {
		return
	}
	pattern := 0
	if r != nil {
		pattern = r.Intn(4)
	}
	s.Field[0][col] = Block{Present: true, Falling: true, PatternID: pattern}
}

// clearFullLines removes every row whose cells are all settled (non-falling)
// blocks and drops everything above it by one row.
func clearFullLines(s *State) int {
	cleared := 0
	for row := FieldHeight - 1; row >= 0; row-- {
		full := true
		for col := 0; col < FieldWidth; col++ {
			if !s.Field[row][col].Present || s.Field[row][col].Falling {
				full = false
				break
			}
		}
		if !full {
			continue
		}
		for r := row; r > 0; r-- {
			s.Field[r] = s.Field[r-1]
		}
		s.Field[0] = [FieldWidth]Block{}
		cleared++
		row++ // re-examine the same row index, now holding the row above
	}
	return cleared
}

// detectTerminal checks, in ascending player-index order, whether a worker
// is now crushed by a settled block and whether any settled block has
// reached the ceiling row.
func detectTerminal(s *State) {
	if s.Terminal != NoTerminal {
		return
	}
	for _, w := range s.Workers {
		if !w.Alive {
			continue
		}
		feetCrushed := s.Field[w.Row][w.Col].Present && !s.Field[w.Row][w.Col].Falling
		headCrushed := inField(w.Row-1, w.Col) && s.Field[w.Row-1][w.Col].Present && !s.Field[w.Row-1][w.Col].Falling
		if feetCrushed || headCrushed {
			w.Crushed = true
			w.Alive = false
			s.Terminal = WorkerCrushed
			s.CrushedBy = w.PlayerID
			return
		}
	}
	for col := 0; col < FieldWidth; col++ {
		if s.Field[0][col].Present && !s.Field[0][col].Falling {
			s.Terminal = CeilingReached
			return
		}
	}
}

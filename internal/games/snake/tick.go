package snake

// StepEvents carries per-tick side effects the session driver may want to
// surface (currently informational only; the broadcast snapshot carries the
// authoritative state).
type StepEvents struct {
	Died []Cell // heads that resulted in a death this tick, for diagnostics
}

// Tick advances the game by one discrete step (spec.md 4.7.1): commit
// pending directions, move every living snake, resolve collisions against a
// pre-move snapshot (so two snakes entering the same cell this tick both
// die, order-independently), apply growth/food, then spawn new food.
func Tick(s *State, r RNG) StepEvents {
	type moveResult struct {
		head      Cell
		wallDead  bool
		willGrow  bool
		collision bool
		selfHit   bool
	}

	alive := make([]*Snake, 0, len(s.Snakes))
	for _, sn := range s.Snakes {
		if sn.Alive {
			alive = append(alive, sn)
		}
	}

	results := make(map[*Snake]moveResult, len(alive))

	// Commit pending direction and compute the candidate new head.
	for _, sn := range alive {
		if sn.Pending != nil {
			if *sn.Pending != sn.Dir.opposite() {
				sn.Dir = *sn.Pending
			}
			sn.Pending = nil
		}
		dx, dy := sn.Dir.delta()
		head := sn.Body[0]
		nx, ny := head.X+dx, head.Y+dy

		res := moveResult{}
		switch s.Settings.WallPolicy {
		case WallWrapAround:
			nx = ((nx % s.Settings.Width) + s.Settings.Width) % s.Settings.Width
			ny = ((ny % s.Settings.Height) + s.Settings.Height) % s.Settings.Height
		default:
			if nx < 0 || nx >= s.Settings.Width || ny < 0 || ny >= s.Settings.Height {
				res.wallDead = true
			}
		}
		res.head = Cell{X: nx, Y: ny}
		res.willGrow = s.Food[res.head]
		results[sn] = res
	}

	// Resolve collisions against the pre-move snapshot of every snake's body.
	bodyMinusTail := func(sn *Snake, grows bool) []Cell {
		if grows || len(sn.Body) == 0 {
			return sn.Body
		}
		return sn.Body[:len(sn.Body)-1]
	}

	for _, sn := range alive {
		res := results[sn]
		if res.wallDead {
			continue
		}
		if occupiesCell(bodyMinusTail(sn, res.willGrow), res.head) {
			res.collision = true
			res.selfHit = true
		}
		for _, other := range alive {
			if other == sn {
				continue
			}
			otherRes := results[other]
			if !otherRes.wallDead && otherRes.head == res.head {
				res.collision = true // head-to-head
			}
			if occupiesCell(bodyMinusTail(other, otherRes.willGrow), res.head) {
				res.collision = true
			}
		}
		results[sn] = res
	}

	var events StepEvents
	for _, sn := range alive {
		res := results[sn]
		switch {
		case res.wallDead:
			sn.Alive = false
			sn.DeathReason = WallCollision
			events.Died = append(events.Died, res.head)
		case res.collision:
			sn.Alive = false
			sn.DeathReason = OtherSnakeCollision
			if res.selfHit {
				sn.DeathReason = SelfCollision
			}
			events.Died = append(events.Died, res.head)
		default:
			newBody := make([]Cell, 0, len(sn.Body)+1)
			newBody = append(newBody, res.head)
			newBody = append(newBody, sn.Body...)
			if !res.willGrow {
				newBody = newBody[:len(newBody)-1]
			} else {
				delete(s.Food, res.head)
			}
			sn.Body = newBody
		}
	}

	spawnFood(s, r)
	return events
}

func occupiesCell(body []Cell, c Cell) bool {
	for _, b := range body {
		if b == c {
			return true
		}
	}
	return false
}

func occupied(s *State, c Cell) bool {
	if s.Food[c] {
		return true
	}
	for _, sn := range s.Snakes {
		if !sn.Alive {
			continue
		}
		if occupiesCell(sn.Body, c) {
			return true
		}
	}
	return false
}

func spawnFood(s *State, r RNG) {
	count := len(s.Food)
	if count >= s.Settings.MaxFoodCount {
		return
	}
	for y := 0; y < s.Settings.Height; y++ {
		for x := 0; x < s.Settings.Width; x++ {
			if count >= s.Settings.MaxFoodCount {
				return
			}
			c := Cell{X: x, Y: y}
			if occupied(s, c) {
				continue
			}
			if r.Float64() < s.Settings.FoodSpawnProbability {
				s.Food[c] = true
				count++
			}
		}
	}
}

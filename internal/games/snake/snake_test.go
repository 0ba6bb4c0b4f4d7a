package snake

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

type fixedRNG struct{ f float64 }

func (r fixedRNG) Float64() float64 { return r.f }
func (r fixedRNG) Intn(n int) int   { return 0 }
func (r fixedRNG) Bool() bool       { return false }

// TestSingleFoodBoundaryScenario matches spec.md 8's literal boundary
// scenario: a 10x10 wrap-around board, single player starting at (5,5)
// facing Right, single food at (8,5). At tick 3 the head must be at (8,5),
// length 4, score 1.
func TestSingleFoodBoundaryScenario(t *testing.T) {
	settings := Settings{
		Width:                10,
		Height:               10,
		WallPolicy:           WallWrapAround,
		MaxFoodCount:         1,
		FoodSpawnProbability: 0, // never spawn extra food during the test
		TickIntervalMs:       150,
	}
	pid := ids.PlayerId("p1")
	st := CreateSession([]ids.PlayerId{pid}, []bool{false}, settings)

	require.Equal(t, Cell{X: 5, Y: 5}, st.Snakes[0].Body[0])
	require.Equal(t, Right, st.Snakes[0].Dir)

	st.Food[Cell{X: 8, Y: 5}] = true

	noSpawn := fixedRNG{f: 1} // Float64() == 1 never beats "< probability"
	for i := 0; i < 3; i++ {
		Tick(st, noSpawn)
	}

	sn := st.Snakes[0]
	require.Equal(t, Cell{X: 8, Y: 5}, sn.Body[0], "expected head at (8,5) after tick 3")
	require.Len(t, sn.Body, 4, "expected length 4 after eating")
	require.Equal(t, 1, sn.Score())
}

func TestOppositeDirectionIgnored(t *testing.T) {
	settings := Settings{Width: 20, Height: 20, WallPolicy: WallWrapAround, MaxFoodCount: 0, TickIntervalMs: 150}
	pid := ids.PlayerId("p1")
	st := CreateSession([]ids.PlayerId{pid}, []bool{false}, settings)

	modified, err := ApplyCommand(st, pid, Command{Direction: Left})
	require.NoError(t, err)
	require.False(t, modified, "expected reversal request to be a no-op")
	require.Nil(t, st.Snakes[0].Pending)
}

func TestHeadToHeadBothDie(t *testing.T) {
	settings := Settings{Width: 20, Height: 20, WallPolicy: WallDeath, MaxFoodCount: 0, TickIntervalMs: 150}
	a := ids.PlayerId("a")
	b := ids.PlayerId("b")
	st := &State{Settings: settings, Food: map[Cell]bool{}}
	st.Snakes = []*Snake{
		{PlayerID: a, Body: []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, Dir: Right, Alive: true},
		{PlayerID: b, Body: []Cell{{X: 7, Y: 5}, {X: 8, Y: 5}, {X: 9, Y: 5}}, Dir: Left, Alive: true},
	}

	Tick(st, fixedRNG{f: 1})

	require.False(t, st.Snakes[0].Alive, "expected both snakes to die in a head-to-head collision")
	require.False(t, st.Snakes[1].Alive, "expected both snakes to die in a head-to-head collision")
	require.Equal(t, OtherSnakeCollision, st.Snakes[0].DeathReason)
	require.Equal(t, OtherSnakeCollision, st.Snakes[1].DeathReason)
}

package puzzle2048

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

type stubRNG struct {
	spawnAt  [2]int
	spawnVal int
}

func (s *stubRNG) Intn(n int) int        { return 0 }
func (s *stubRNG) Chance(p float64) bool { return true }

func TestSlideLeftMerges(t *testing.T) {
	player := ids.NewPlayerId()
	st := &State{
		Settings: Settings{Size: 4, TargetValue: 2048},
		Player:   player,
		Board: [][]int{
			{2, 2, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
	}
	modified, err := ApplyCommand(st, player, Command{Direction: Left}, &stubRNG{})
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, 4, st.Board[0][0])
	// stubRNG spawns a 2 into the first empty cell, which after the merge is (0,1).
	require.Equal(t, 2, st.Board[0][1])
	require.Equal(t, 4, st.Score)
}

func TestNoOpMoveDoesNotSpawn(t *testing.T) {
	player := ids.NewPlayerId()
	st := &State{
		Settings: Settings{Size: 2, TargetValue: 2048},
		Player:   player,
		Board: [][]int{
			{2, 0},
			{0, 0},
		},
	}
	before := cloneBoard(st.Board)
	modified, err := ApplyCommand(st, player, Command{Direction: Left}, &stubRNG{})
	require.NoError(t, err)
	require.False(t, modified)
	require.True(t, boardsEqual(before, st.Board))
}

func TestMergeOncePerMove(t *testing.T) {
	player := ids.NewPlayerId()
	st := &State{
		Settings: Settings{Size: 4, TargetValue: 2048},
		Player:   player,
		Board: [][]int{
			{2, 2, 2, 2},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
	}
	_, err := ApplyCommand(st, player, Command{Direction: Left}, &stubRNG{})
	require.NoError(t, err)
	require.Equal(t, 4, st.Board[0][0])
	require.Equal(t, 4, st.Board[0][1])
}

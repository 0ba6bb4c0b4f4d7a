package numbersmatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

type fixedRNG struct {
	vals []int
	i    int
}

func (f *fixedRNG) Intn(n int) int {
	if f.i >= len(f.vals) {
		return 0
	}
	v := f.vals[f.i] % n
	f.i++
	return v
}

func TestAdjacentSameRowThroughRemoved(t *testing.T) {
	player := ids.NewPlayerId()
	r := &fixedRNG{vals: []int{2, 6, 0, 0, 0, 0, 0, 0, 0}}
	s := CreateSession(player, false, Settings{DefaultRefills: 3}, r)

	require.True(t, adjacent(s, 0, 1), "cells 0,1 should be scan-adjacent")
	_, err := ApplyCommand(s, player, Command{IndexA: 0, IndexB: 1})
	require.NoError(t, err)
	require.True(t, s.Cells[0].Removed)
	require.True(t, s.Cells[1].Removed)

	s.Cells[3].Removed = true
	require.True(t, adjacent(s, 2, 4), "cells 2,4 should be adjacent through a removed gap")
}

func TestWinWhenAllRemoved(t *testing.T) {
	player := ids.NewPlayerId()
	s := &State{
		Player:         player,
		Settings:       Settings{DefaultRefills: 1},
		RefillsAllowed: 1,
		Cells: []Cell{
			{Value: 5}, {Value: 5},
			{Removed: true}, {Removed: true},
			{Removed: true}, {Removed: true},
			{Removed: true}, {Removed: true}, {Removed: true},
		},
	}
	_, err := ApplyCommand(s, player, Command{IndexA: 0, IndexB: 1})
	require.NoError(t, err)
	require.Equal(t, Won, s.Status)
}

func TestLostRequiresRefillsExhausted(t *testing.T) {
	player := ids.NewPlayerId()
	s := &State{
		Player:         player,
		Settings:       Settings{DefaultRefills: 1},
		RefillsAllowed: 1,
		Cells: []Cell{
			{Value: 1}, {Value: 2},
			{Removed: true}, {Removed: true},
			{Removed: true}, {Removed: true},
			{Removed: true}, {Removed: true}, {Removed: true},
		},
	}
	_, err := ApplyCommand(s, player, Command{Kind: Refill})
	require.NoError(t, err)
	if s.Status == Lost {
		require.GreaterOrEqual(t, s.RefillsUsed, s.RefillsAllowed)
	}
}

func TestDisconnectEndsSession(t *testing.T) {
	player := ids.NewPlayerId()
	s := &State{Player: player, Status: InProgress}
	Disconnect(s, player)
	require.True(t, IsTerminal(s))
}

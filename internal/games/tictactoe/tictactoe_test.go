package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

type fixedRNG struct{ b bool }

func (r fixedRNG) Bool() bool { return r.b }

func defaultSettings() Settings {
	return Settings{Width: 3, Height: 3, WinCount: 3, FirstPlay: FirstPlayerHost}
}

func TestCreateSessionFirstPlayerHost(t *testing.T) {
	host := ids.PlayerId("host")
	guest := ids.PlayerId("guest")
	st := CreateSession([]ids.PlayerId{host, guest}, host, defaultSettings(), fixedRNG{})
	require.Equal(t, host, st.PlayerX)
	require.Equal(t, guest, st.PlayerO)
	require.Equal(t, MarkX, st.Turn)
}

func TestApplyCommandDetectsWin(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})

	moves := []struct {
		player ids.PlayerId
		row    int
		col    int
	}{
		{x, 0, 0}, {o, 1, 0},
		{x, 0, 1}, {o, 1, 1},
		{x, 0, 2}, // completes the top row for X
	}
	for _, m := range moves {
		_, err := ApplyCommand(st, m.player, Command{Row: m.row, Col: m.col})
		require.NoError(t, err)
	}
	require.Equal(t, XWon, st.Status)
	scores, winner, info := GameOver(st)
	require.NotNil(t, winner)
	require.Equal(t, x, *winner)
	require.ElementsMatch(t, []ScoreEntry{{PlayerID: x, Score: 1}, {PlayerID: o, Score: 0}}, scores)
	require.Len(t, info.WinningLine, 3)
}

func TestApplyCommandRejectsOccupiedCell(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})

	_, err := ApplyCommand(st, x, Command{Row: 0, Col: 0})
	require.NoError(t, err)
	_, err = ApplyCommand(st, o, Command{Row: 0, Col: 0})
	require.Error(t, err)
}

func TestApplyCommandRejectsWrongTurn(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})

	_, err := ApplyCommand(st, o, Command{Row: 1, Col: 1})
	require.Error(t, err)
}

func TestDisconnectAwardsRemainingPlayer(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})

	Disconnect(st, x)
	require.Equal(t, OWon, st.Status)
	require.True(t, IsTerminal(st))
}

func TestCalculateBotMoveWinBlockTakesWinningMove(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})
	st.Board[0][0] = MarkO
	st.Board[0][1] = MarkO
	st.Turn = MarkO

	mv := CalculateBotMove(st, o, BotWinBlock, nil)
	require.NotNil(t, mv)
	require.Equal(t, Command{Row: 0, Col: 2}, *mv)
}

func TestCalculateBotMoveWinBlockBlocksOpponent(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})
	st.Board[1][0] = MarkX
	st.Board[1][1] = MarkX
	st.Turn = MarkO

	mv := CalculateBotMove(st, o, BotWinBlock, nil)
	require.NotNil(t, mv)
	require.Equal(t, Command{Row: 1, Col: 2}, *mv)
}

func TestCalculateBotMoveMinimaxTakesImmediateWin(t *testing.T) {
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})
	st.Board[2][0] = MarkX
	st.Board[2][1] = MarkX
	st.Turn = MarkX

	mv := CalculateBotMove(st, x, BotMinimax, nil)
	require.NotNil(t, mv)
	require.Equal(t, Command{Row: 2, Col: 2}, *mv)
}

func TestCalculateBotMoveMinimaxAvoidsLosingMove(t *testing.T) {
	// O is one move from winning the middle row; X must block at (1,2)
	// rather than hand O the win, even several plies deep.
	x := ids.PlayerId("x")
	o := ids.PlayerId("o")
	st := CreateSession([]ids.PlayerId{x, o}, x, defaultSettings(), fixedRNG{})
	st.Board[1][0] = MarkO
	st.Board[1][1] = MarkO
	st.Board[0][0] = MarkX
	st.Turn = MarkX

	mv := CalculateBotMove(st, x, BotMinimax, nil)
	require.NotNil(t, mv)
	require.Equal(t, Command{Row: 1, Col: 2}, *mv)
}

func TestWinningLineIgnoresStaleMarksElsewhereOnBoard(t *testing.T) {
	// Regression for the minimax wrong-cell bug: a mark placed earlier at a
	// board position that sorts after the move actually being evaluated
	// must not be mistaken for "the cell just placed".
	st := CreateSession([]ids.PlayerId{"x", "o"}, "x", defaultSettings(), fixedRNG{})
	st.Board[2][2] = MarkO // occupies a position later in row-major order
	st.Board[0][0] = MarkX
	st.Board[0][1] = MarkX

	_, ok := winningLine(st, 0, 1, MarkX)
	require.False(t, ok, "two-in-a-row is not yet a win")

	st.Board[0][2] = MarkX
	line, ok := winningLine(st, 0, 2, MarkX)
	require.True(t, ok)
	require.Len(t, line, 3)
}

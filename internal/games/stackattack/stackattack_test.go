package stackattack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

func TestPushBlockIntoClearCell(t *testing.T) {
	p := ids.NewPlayerId()
	s := CreateSession([]ids.PlayerId{p}, []bool{false}, Settings{TickIntervalMs: 200, CraneIntervalTk: 5})
	w := s.Workers[0]
	s.Field[w.Row][w.Col+1] = Block{Present: true}

	modified, err := ApplyCommand(s, p, Command{Kind: CmdMove, Direction: MoveRight})
	require.NoError(t, err)
	require.True(t, modified)
	require.True(t, s.Field[w.Row][w.Col+1].Present, "pushed block should now be one cell further")
	require.False(t, s.Field[w.Row][w.Col-1].Present)
}

func TestBlockSettlesOnFloor(t *testing.T) {
	p := ids.NewPlayerId()
	s := CreateSession([]ids.PlayerId{p}, []bool{false}, Settings{TickIntervalMs: 200, CraneIntervalTk: 100})
	s.Field[0][7] = Block{Present: true, Falling: true}

	for i := 0; i < FieldHeight; i++ {
		Tick(s, nil)
	}
	require.True(t, s.Field[FieldHeight-1][7].Present)
	require.False(t, s.Field[FieldHeight-1][7].Falling)
}

func TestSoleWorkerDisconnectTerminatesSession(t *testing.T) {
	p := ids.NewPlayerId()
	s := CreateSession([]ids.PlayerId{p}, []bool{false}, Settings{TickIntervalMs: 200, CraneIntervalTk: 100})
	Disconnect(s, p)
	require.True(t, IsTerminal(s))
}

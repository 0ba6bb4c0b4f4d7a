package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lab1702/minigames-server/internal/ids"
)

func TestRecorderFinalizeOrdersByTickThenInsertion(t *testing.T) {
	roster := []RosterEntry{{PlayerID: ids.NewPlayerId()}, {PlayerID: ids.NewPlayerId()}}
	rec := New(GameSnake, 42, 0, []byte("settings"), roster)

	rec.RecordCommand(5, 0, []byte("b"))
	rec.RecordCommand(3, 1, []byte("a"))
	rec.RecordCommand(5, 1, []byte("c"))

	out := rec.Finalize()
	require.Len(t, out.Actions, 3)
	require.Equal(t, int64(3), out.Actions[0].Tick)
	require.Equal(t, int64(5), out.Actions[1].Tick)
	require.Equal(t, []byte("b"), out.Actions[1].CommandPayload)
	require.Equal(t, int64(5), out.Actions[2].Tick)
	require.Equal(t, []byte("c"), out.Actions[2].CommandPayload)
}

func TestFindPlayerIndex(t *testing.T) {
	p0, p1 := ids.NewPlayerId(), ids.NewPlayerId()
	rec := New(GameTicTacToe, 1, 0, nil, []RosterEntry{{PlayerID: p0}, {PlayerID: p1, IsBot: true}})

	idx, ok := rec.FindPlayerIndex(p1)
	require.True(t, ok)
	require.Equal(t, int32(1), idx)

	_, ok = rec.FindPlayerIndex(ids.NewPlayerId())
	require.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p0, p1 := ids.NewPlayerId(), ids.NewPlayerId()
	rec := New(GameTicTacToe, 7, 1234, []byte(`{"width":3}`), []RosterEntry{{PlayerID: p0}, {PlayerID: p1, IsBot: true}})
	rec.RecordCommand(1, 0, []byte{1, 2, 3})
	rec.RecordDisconnect(2, 1)
	original := rec.Finalize()

	start := time.Unix(0, 0)
	path, err := Save(dir, start, original)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(path) || filepath.Dir(path) == dir)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, original.Header.EngineVersion, loaded.Header.EngineVersion)
	require.Equal(t, original.Header.Seed, loaded.Header.Seed)
	require.Equal(t, original.Header.Game, loaded.Header.Game)
	require.Equal(t, original.Header.LobbySettings, loaded.Header.LobbySettings)
	require.Equal(t, original.Header.Roster, loaded.Header.Roster)
	require.Equal(t, original.Actions, loaded.Actions)
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.minigamesreplay")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "future.minigamesreplay")
	require.NoError(t, os.WriteFile(path, []byte{9, 1, 2, 3}, 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

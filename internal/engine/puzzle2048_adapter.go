package engine

import (
	"encoding/json"
	"time"

	"github.com/lab1702/minigames-server/internal/games/puzzle2048"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

type puzzle2048StateView struct {
	Board  [][]int `json:"board"`
	Score  int     `json:"score"`
	Status int     `json:"status"`
}

// Puzzle2048 has no bots; recorder/computeBots are accepted only to keep
// every per-game adapter the same shape for buildHooks' dispatch.
func newPuzzle2048Hooks(r Roster, seed *rng.Source, _ *replay.Recorder, _ bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	player := r.Players[0]
	st := puzzle2048.CreateSession(player, r.LobbySettings.Puzzle2048, seed)

	var evTick int64
	hooks := session.Hooks{
		ApplyCommand: func(sender ids.PlayerId, payload json.RawMessage) (bool, error) {
			var cmd puzzle2048.Command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				return false, err
			}
			evTick++
			return puzzle2048.ApplyCommand(st, sender, cmd, seed)
		},
		Tick:       func() {},
		Disconnect: func(pid ids.PlayerId) { puzzle2048.Disconnect(st, pid) },
		IsTerminal: func() bool { return puzzle2048.IsTerminal(st) },
		Snapshot: func() wire.ServerMessage {
			board := make([][]int, len(st.Board))
			for i, row := range st.Board {
				board[i] = append([]int(nil), row...)
			}
			return wire.ServerMessage{Type: wire.TypeGameState, Data: puzzle2048StateView{Board: board, Score: st.Score, Status: int(st.Status)}}
		},
		GameOver: func() wire.GameOverPayload {
			scores, winner, endInfo := puzzle2048.GameOver(st)
			infoJSON, _ := json.Marshal(endInfo)
			return wire.GameOverPayload{
				Scores:   scoreRows(scores, func(e puzzle2048.ScoreEntry) ids.PlayerId { return e.PlayerID }, func(e puzzle2048.ScoreEntry) int { return e.Score }),
				Winner:   winnerStr(winner),
				GameInfo: infoJSON,
			}
		},
	}
	return hooks, false, 0, func() int64 { return evTick }, nil
}

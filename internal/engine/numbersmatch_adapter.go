package engine

import (
	"encoding/json"
	"time"

	"github.com/lab1702/minigames-server/internal/games/numbersmatch"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

type numbersMatchStateView struct {
	Cells          []numbersMatchCellView `json:"cells"`
	RefillsUsed    int                    `json:"refillsUsed"`
	RefillsAllowed int                    `json:"refillsAllowed"`
	Hints          int                    `json:"hints"`
	Status         int                    `json:"status"`
}

type numbersMatchCellView struct {
	Value   int  `json:"value"`
	Removed bool `json:"removed"`
}

// NumbersMatch has no bots; recorder/computeBots are accepted only to keep
// every per-game adapter the same shape for buildHooks' dispatch.
func newNumbersMatchHooks(r Roster, seed *rng.Source, _ *replay.Recorder, _ bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	player := r.Players[0]
	st := numbersmatch.CreateSession(player, false, r.LobbySettings.NumbersMatch, seed)

	var evTick int64
	hooks := session.Hooks{
		ApplyCommand: func(sender ids.PlayerId, payload json.RawMessage) (bool, error) {
			var cmd numbersmatch.Command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				return false, err
			}
			evTick++
			return numbersmatch.ApplyCommand(st, sender, cmd)
		},
		Tick:       func() {},
		Disconnect: func(pid ids.PlayerId) { numbersmatch.Disconnect(st, pid) },
		IsTerminal: func() bool { return numbersmatch.IsTerminal(st) },
		Snapshot: func() wire.ServerMessage {
			view := numbersMatchStateView{
				RefillsUsed:    st.RefillsUsed,
				RefillsAllowed: st.RefillsAllowed,
				Hints:          st.Hints,
				Status:         int(st.Status),
			}
			for _, c := range st.Cells {
				view.Cells = append(view.Cells, numbersMatchCellView{Value: c.Value, Removed: c.Removed})
			}
			return wire.ServerMessage{Type: wire.TypeGameState, Data: view}
		},
		GameOver: func() wire.GameOverPayload {
			scores, winner, endInfo := numbersmatch.GameOver(st)
			infoJSON, _ := json.Marshal(endInfo)
			return wire.GameOverPayload{
				Scores:   scoreRows(scores, func(e numbersmatch.ScoreEntry) ids.PlayerId { return e.PlayerID }, func(e numbersmatch.ScoreEntry) int { return e.Score }),
				Winner:   winnerStr(winner),
				GameInfo: infoJSON,
			}
		},
	}
	return hooks, false, 0, func() int64 { return evTick }, nil
}

package engine

import (
	"encoding/json"
	"time"

	"github.com/lab1702/minigames-server/internal/games/stackattack"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

type stackAttackStateView struct {
	Tick    uint64                `json:"tick"`
	Field   [][]stackAttackCell   `json:"field"`
	Workers []stackAttackWorkerRow `json:"workers"`
}

type stackAttackCell struct {
	Present bool `json:"present"`
	Falling bool `json:"falling"`
}

type stackAttackWorkerRow struct {
	PlayerID string `json:"playerId"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	State    int    `json:"state"`
	Alive    bool   `json:"alive"`
}

// StackAttack has no bots; recorder/computeBots are accepted only to keep
// every per-game adapter the same shape for buildHooks' dispatch.
func newStackAttackHooks(r Roster, seed *rng.Source, _ *replay.Recorder, _ bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	isBot := make([]bool, len(r.Players))
	st := stackattack.CreateSession(r.Players, isBot, r.LobbySettings.StackAttack)
	var linesCleared int

	hooks := session.Hooks{
		ApplyCommand: func(sender ids.PlayerId, payload json.RawMessage) (bool, error) {
			var cmd stackattack.Command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				return false, err
			}
			return stackattack.ApplyCommand(st, sender, cmd)
		},
		Tick: func() {
			events := stackattack.Tick(st, seed)
			linesCleared += events.LinesClearedThisTick
		},
		Disconnect: func(pid ids.PlayerId) { stackattack.Disconnect(st, pid) },
		IsTerminal: func() bool { return stackattack.IsTerminal(st) },
		Snapshot: func() wire.ServerMessage {
			view := stackAttackStateView{Tick: st.Tick}
			for r := 0; r < stackattack.FieldHeight; r++ {
				row := make([]stackAttackCell, stackattack.FieldWidth)
				for c := 0; c < stackattack.FieldWidth; c++ {
					b := st.Field[r][c]
					row[c] = stackAttackCell{Present: b.Present, Falling: b.Falling}
				}
				view.Field = append(view.Field, row)
			}
			for _, w := range st.Workers {
				view.Workers = append(view.Workers, stackAttackWorkerRow{
					PlayerID: string(w.PlayerID), Row: w.Row, Col: w.Col, State: int(w.State), Alive: w.Alive,
				})
			}
			return wire.ServerMessage{Type: wire.TypeGameState, Data: view}
		},
		GameOver: func() wire.GameOverPayload {
			scores, winner, endInfo := stackattack.GameOver(st, linesCleared)
			infoJSON, _ := json.Marshal(endInfo)
			return wire.GameOverPayload{
				Scores:   scoreRows(scores, func(e stackattack.ScoreEntry) ids.PlayerId { return e.PlayerID }, func(e stackattack.ScoreEntry) int { return e.Score }),
				Winner:   winnerStr(winner),
				GameInfo: infoJSON,
			}
		},
	}
	interval := time.Duration(r.LobbySettings.StackAttack.TickIntervalMs) * time.Millisecond
	return hooks, true, interval, func() int64 { return int64(st.Tick) }, nil
}

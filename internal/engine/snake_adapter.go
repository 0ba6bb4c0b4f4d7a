package engine

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/lab1702/minigames-server/internal/games/snake"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

// snakeStateView is the JSON shape broadcast after every tick.
type snakeStateView struct {
	Tick   uint64          `json:"tick"`
	Snakes []snakeSnakeRow `json:"snakes"`
	Food   []snakeCell     `json:"food"`
}

type snakeCell struct{ X, Y int }

type snakeSnakeRow struct {
	PlayerID string      `json:"playerId"`
	Body     []snakeCell `json:"body"`
	Alive    bool        `json:"alive"`
	Score    int         `json:"score"`
}

func newSnakeHooks(r Roster, seed *rng.Source, recorder *replay.Recorder, computeBots bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	isBot := make([]bool, len(r.Players))
	botPolicy := make(map[ids.PlayerId]snake.BotPolicy)
	for botID, bt := range r.Bots {
		pid := ids.AsPlayerId(botID)
		botPolicy[pid] = bt.SnakePolicy
	}
	for i, p := range r.Players {
		if _, ok := botPolicy[p]; ok {
			isBot[i] = true
		}
	}
	// Bot-occupied player slots are appended after humans so a single
	// stable roster drives both the session and the replay.
	allPlayers := append(append([]ids.PlayerId{}, r.Players...), botPlayerIDs(r.Bots)...)
	allIsBot := append(append([]bool{}, isBot...), allTrue(len(r.Bots))...)

	st := snake.CreateSession(allPlayers, allIsBot, r.LobbySettings.Snake)
	var tick uint64

	hooks := session.Hooks{
		ApplyCommand: func(sender ids.PlayerId, payload json.RawMessage) (bool, error) {
			var cmd snake.Command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				return false, err
			}
			return snake.ApplyCommand(st, sender, cmd)
		},
		Tick: func() {
			if computeBots {
				for botID, bt := range r.Bots {
					pid := ids.AsPlayerId(botID)
					if mv := snake.CalculateBotMove(st, pid, bt.SnakePolicy, seed); mv != nil {
						if modified, _ := snake.ApplyCommand(st, pid, *mv); modified {
							recordBotCommand(recorder, int64(tick), pid, *mv)
						}
					}
				}
			}
			snake.Tick(st, seed)
			tick++
		},
		Disconnect: func(pid ids.PlayerId) { snake.Disconnect(st, pid) },
		IsTerminal: func() bool { return snake.IsTerminal(st) },
		Snapshot: func() wire.ServerMessage {
			view := snakeStateView{Tick: tick}
			for _, sn := range st.Snakes {
				row := snakeSnakeRow{PlayerID: string(sn.PlayerID), Alive: sn.Alive, Score: sn.Score()}
				for _, c := range sn.Body {
					row.Body = append(row.Body, snakeCell{X: c.X, Y: c.Y})
				}
				view.Snakes = append(view.Snakes, row)
			}
			for c := range st.Food {
				view.Food = append(view.Food, snakeCell{X: c.X, Y: c.Y})
			}
			return wire.ServerMessage{Type: wire.TypeGameState, Data: view}
		},
		GameOver: func() wire.GameOverPayload {
			scores, winner, endInfo := snake.GameOver(st, tick)
			infoJSON, _ := json.Marshal(endInfo)
			return wire.GameOverPayload{
				Scores:   scoreRows(scores, func(e snake.ScoreEntry) ids.PlayerId { return e.PlayerID }, func(e snake.ScoreEntry) int { return e.Score }),
				Winner:   winnerStr(winner),
				GameInfo: infoJSON,
			}
		},
	}
	interval := time.Duration(r.LobbySettings.Snake.TickIntervalMs) * time.Millisecond
	return hooks, true, interval, func() int64 { return int64(tick) }, nil
}

func botPlayerIDs(bots map[ids.BotId]lobby.BotType) []ids.PlayerId {
	out := make([]ids.PlayerId, 0, len(bots))
	for id := range bots {
		out = append(out, ids.AsPlayerId(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

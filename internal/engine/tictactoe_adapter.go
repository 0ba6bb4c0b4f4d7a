package engine

import (
	"encoding/json"
	"time"

	"github.com/lab1702/minigames-server/internal/games/tictactoe"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

type tictactoeStateView struct {
	Board  [][]int `json:"board"`
	Turn   int     `json:"turn"`
	Status int     `json:"status"`
}

func newTicTacToeHooks(r Roster, seed *rng.Source, recorder *replay.Recorder, computeBots bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	allPlayers := append(append([]ids.PlayerId{}, r.Players...), botPlayerIDs(r.Bots)...)
	st := tictactoe.CreateSession(allPlayers, r.Creator, r.LobbySettings.TicTacToe, seed)

	botPolicy := make(map[ids.PlayerId]tictactoe.BotPolicy)
	for botID, bt := range r.Bots {
		botPolicy[ids.AsPlayerId(botID)] = bt.TicTacToePolicy
	}

	// evTick is the event-driven tick counter; lastTick freezes the value
	// at which the most recently applied human command (or disconnect) was
	// observed, so the driver's generic record() call -- which fires after
	// ApplyCommand returns, i.e. after any bot cascade below has already
	// advanced evTick further -- still tags that human command with its own
	// tick rather than the last bot move's.
	var evTick int64
	var lastTick int64

	runBots := func() {
		for st.Status == tictactoe.InProgress {
			turnPid := st.PlayerForMark(st.Turn)
			policy, ok := botPolicy[turnPid]
			if !ok {
				return
			}
			mv := tictactoe.CalculateBotMove(st, turnPid, policy, seed)
			if mv == nil {
				return
			}
			if _, err := tictactoe.ApplyCommand(st, turnPid, *mv); err != nil {
				return
			}
			evTick++
			recordBotCommand(recorder, evTick, turnPid, *mv)
		}
	}
	if computeBots {
		runBots()
	}

	hooks := session.Hooks{
		ApplyCommand: func(sender ids.PlayerId, payload json.RawMessage) (bool, error) {
			var cmd tictactoe.Command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				return false, err
			}
			modified, err := tictactoe.ApplyCommand(st, sender, cmd)
			if err != nil {
				return false, err
			}
			evTick++
			lastTick = evTick
			if computeBots {
				runBots()
			}
			return modified, nil
		},
		Tick: func() {},
		Disconnect: func(pid ids.PlayerId) {
			tictactoe.Disconnect(st, pid)
			evTick++
			lastTick = evTick
		},
		IsTerminal: func() bool { return tictactoe.IsTerminal(st) },
		Snapshot: func() wire.ServerMessage {
			board := make([][]int, len(st.Board))
			for i, row := range st.Board {
				board[i] = make([]int, len(row))
				for j, m := range row {
					board[i][j] = int(m)
				}
			}
			return wire.ServerMessage{Type: wire.TypeGameState, Data: tictactoeStateView{Board: board, Turn: int(st.Turn), Status: int(st.Status)}}
		},
		GameOver: func() wire.GameOverPayload {
			scores, winner, endInfo := tictactoe.GameOver(st)
			infoJSON, _ := json.Marshal(endInfo)
			return wire.GameOverPayload{
				Scores:   scoreRows(scores, func(e tictactoe.ScoreEntry) ids.PlayerId { return e.PlayerID }, func(e tictactoe.ScoreEntry) int { return e.Score }),
				Winner:   winnerStr(winner),
				GameInfo: infoJSON,
			}
		},
	}
	return hooks, false, 0, func() int64 { return lastTick }, nil
}

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/draw-guess-backend/internal/engine"
	"github.com/DoyleJ11/draw-guess-backend/internal/hub"
	"github.com/DoyleJ11/draw-guess-backend/internal/room"
	"github.com/DoyleJ11/draw-guess-backend/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection, issues it a PlayerID and shuttles events
// between the socket and whichever rooms the client joins. Malformed or
// unroutable messages are dropped without a reply.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		playerID := engine.PlayerID(uuid.NewString())
		log.Info("client connected", zap.String("player", string(playerID)))

		// Rooms this connection has joined. Usually one, but a client that
		// sends joinRoom for a second room is a member of both.
		rooms := make(map[string]*room.Room)
		defer func() {
			// Disconnect is delivered to each joined room like any other
			// event. Detach first so the departure snapshot skips us.
			for _, rm := range rooms {
				rm.Inbox() <- room.Detach{PlayerID: playerID}
				rm.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdLeave, Player: playerID}}
			}
			log.Info("client disconnected", zap.String("player", string(playerID)))
		}()

		writeCtx, writeCancel := context.WithCancel(context.Background())
		defer writeCancel()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close, going-away or broken pipe all end the same
				// way: the deferred leave tidies the rooms up.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				continue
			}

			if cm.Type == "joinRoom" {
				if cm.RoomID == "" || cm.PlayerName == "" {
					continue
				}
				rm := ensureRoom(h, cm.RoomID)
				if _, ok := rooms[cm.RoomID]; !ok {
					out := make(chan engine.Event, 16)
					rm.Inbox() <- room.Attach{PlayerID: playerID, Outbox: out}
					go writeLoop(writeCtx, conn, out)
					rooms[cm.RoomID] = rm
				}
				rm.Inbox() <- room.FromClient{Cmd: engine.Command{
					Type:   engine.CmdJoin,
					Player: playerID,
					Name:   cm.PlayerName,
				}}
				continue
			}

			cmd, ok := toCommand(playerID, cm)
			if !ok {
				continue
			}
			rm := getRoom(h, cm.RoomID)
			if rm == nil {
				continue
			}
			rm.Inbox() <- room.FromClient{Cmd: cmd}
		}
	}
}

// writeLoop drains one room's events into the socket. The room closes the
// outbox when it drops or shuts the client down; at that point the whole
// connection is closed and the reader takes care of leaving.
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan engine.Event) {
	for ev := range out {
		payload, err := json.Marshal(types.FromEvent(ev))
		if err != nil {
			continue
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		_ = conn.Write(wctx, websocket.MessageText, payload)
		cancel()
	}
	conn.Close(websocket.StatusGoingAway, "room closed")
}

func toCommand(playerID engine.PlayerID, m types.ClientMessage) (engine.Command, bool) {
	if m.RoomID == "" {
		return engine.Command{}, false
	}

	switch m.Type {
	case "startGame":
		return engine.Command{Type: engine.CmdStart}, true
	case "nextTurn":
		return engine.Command{Type: engine.CmdNextTurn}, true
	case "guessWord":
		return engine.Command{Type: engine.CmdGuess, Player: playerID, Guess: m.Guess}, true
	case "draw":
		return engine.Command{
			Type:   engine.CmdDraw,
			Player: playerID,
			Stroke: engine.Stroke{X0: m.X0, Y0: m.Y0, X1: m.X1, Y1: m.Y1},
		}, true
	default:
		return engine.Command{}, false
	}
}

func ensureRoom(h *hub.Hub, id string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.EnsureRoom{ID: id, Reply: reply}
	return <-reply
}

func getRoom(h *hub.Hub, id string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{ID: id, Reply: reply}
	return <-reply
}

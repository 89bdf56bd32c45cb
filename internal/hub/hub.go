package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/draw-guess-backend/internal/engine"
	"github.com/DoyleJ11/draw-guess-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// EnsureRoom returns the existing room or creates one with fresh state.
type EnsureRoom struct {
	ID    string
	Reply chan *room.Room
}

// RemoveRoom drops a room from the registry. Room must match the registered
// pointer: an emptied room reports itself asynchronously, and the guard keeps
// a late report from tearing down a newer room that reused the id.
type RemoveRoom struct {
	ID   string
	Room *room.Room
}

type ShutdownHub struct{}

func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the room registry: a single loop owning the id -> room map, so
// creation and removal never race.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // May be nil

			case EnsureRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := h.newRoom(msg.ID)
				h.rooms[msg.ID] = rm
				h.log.Info("room created", zap.String("room", msg.ID))
				msg.Reply <- rm

			case RemoveRoom:
				if h.rooms[msg.ID] != msg.Room {
					break
				}
				delete(h.rooms, msg.ID)
				msg.Room.Inbox() <- room.Shutdown{}
				h.log.Info("room removed", zap.String("room", msg.ID))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) newRoom(id string) *room.Room {
	var rm *room.Room
	rm = room.New(h.ctx, engine.NewRoomState(id), func() {
		// Runs on the room's own goroutine; the hub loop does the removal.
		// Give up on shutdown so the report can never wedge a dying hub.
		select {
		case h.inbox <- RemoveRoom{ID: id, Room: rm}:
		case <-h.ctx.Done():
		}
	})
	return rm
}

func (h *Hub) shutdown() {
	for _, rm := range h.rooms {
		// Best effort: a room with a saturated inbox is stopped by the
		// context cancellation below instead.
		select {
		case rm.Inbox() <- room.Shutdown{}:
		default:
		}
	}
	clear(h.rooms)
	h.cancel()
}

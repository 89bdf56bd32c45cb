package room

import (
	"context"

	"github.com/DoyleJ11/draw-guess-backend/internal/engine"
)

type Msg interface{ isRoomMsg() }

// Attach registers a connection's outbox so the room can address events to
// it. Attaching does not touch the roster; the gateway follows up with a
// Join command.
type Attach struct {
	PlayerID engine.PlayerID
	Outbox   chan engine.Event
}

func (Attach) isRoomMsg() {}

// Detach unregisters a connection's outbox and closes it, releasing the
// writer draining it.
type Detach struct{ PlayerID engine.PlayerID }

func (Detach) isRoomMsg() {}

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type View struct {
	NumClients int
	State      engine.State
}

// Room is one game session run as its own sequential loop: every command for
// the room funnels through the inbox, so engine state never sees concurrent
// mutation and no lock is needed.
type Room struct {
	inbox   chan Msg
	state   engine.State
	clients map[engine.PlayerID]chan engine.Event
	onEmpty func()
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts the room loop. onEmpty is called once, after the last player
// leaves the roster; the registry uses it to drop the room.
func New(parent context.Context, initial engine.State, onEmpty func()) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[engine.PlayerID]chan engine.Event),
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Attach:
				r.clients[msg.PlayerID] = msg.Outbox

			case Detach:
				// Close as well as delete: only this loop ever sends on an
				// outbox, and after the delete nothing would close it, which
				// would leave the connection's write loop parked forever.
				if ch, ok := r.clients[msg.PlayerID]; ok {
					close(ch)
					delete(r.clients, msg.PlayerID)
				}

			case FromClient:
				events, newState, err := engine.Apply(r.state, msg.Cmd)
				if err != nil {
					// Fail silent: bad input never gets a reply and
					// never corrupts the room.
					break
				}
				r.state = newState
				r.dispatch(events)

				if msg.Cmd.Type == engine.CmdLeave && len(newState.Players) == 0 {
					if r.onEmpty != nil {
						r.onEmpty()
					}
				}

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch) // Tell the connection no more events are coming
		delete(r.clients, id)
	}
	r.cancel()
}

// dispatch fans events out by audience. A client whose outbox is full is
// dropped rather than allowed to stall the whole room.
func (r *Room) dispatch(events []engine.Event) {
	for _, ev := range events {
		switch ev.Scope {
		case engine.ScopePlayer:
			if ch, ok := r.clients[ev.Target]; ok {
				r.send(ev.Target, ch, ev)
			}
		case engine.ScopeExcept:
			for id, ch := range r.clients {
				if id == ev.Target {
					continue
				}
				r.send(id, ch, ev)
			}
		default:
			for id, ch := range r.clients {
				r.send(id, ch, ev)
			}
		}
	}
}

func (r *Room) send(id engine.PlayerID, ch chan engine.Event, ev engine.Event) {
	select {
	case ch <- ev:
		// ok
	default:
		// Client is slow/full - drop them.
		close(ch)
		delete(r.clients, id)
	}
}

package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/draw-guess-backend/internal/hub"
	"github.com/DoyleJ11/draw-guess-backend/pkg/types"
)

func dial(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msg types.ClientMessage) {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, ctx context.Context, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	rctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, data, err := conn.Read(rctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var sm types.ServerMessage
	if err := json.Unmarshal(data, &sm); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return sm
}

func recvType(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) types.ServerMessage {
	t.Helper()
	sm := recv(t, ctx, conn)
	if sm.Type != want {
		t.Fatalf("want %q message, got %q (%+v)", want, sm.Type, sm)
	}
	return sm
}

func TestHandler_FullTurnOverWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h := hub.NewHub(ctx, zap.NewNop())
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	alice := dial(t, ctx, srv)
	defer alice.Close(websocket.StatusNormalClosure, "")
	bob := dial(t, ctx, srv)
	defer bob.Close(websocket.StatusNormalClosure, "")

	// Alice joins first: she is index 0 and will draw first.
	send(t, ctx, alice, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: "Alice"})
	snap := recvType(t, ctx, alice, "roomState")
	if len(snap.RoomState.Players) != 1 {
		t.Fatalf("want 1 player, got %d", len(snap.RoomState.Players))
	}

	send(t, ctx, bob, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: "Bob"})
	snap = recvType(t, ctx, alice, "roomState")
	if len(snap.RoomState.Players) != 2 {
		t.Fatalf("want 2 players, got %d", len(snap.RoomState.Players))
	}
	_ = recvType(t, ctx, bob, "roomState")

	send(t, ctx, alice, types.ClientMessage{Type: "startGame", RoomID: "r1"})

	turn := recvType(t, ctx, alice, "newTurn")
	if turn.NewTurn.DrawerName != "Alice" || turn.NewTurn.Round != 1 {
		t.Fatalf("want Alice drawing round 1, got %+v", turn.NewTurn)
	}
	word := recvType(t, ctx, alice, "yourWord")
	if len(word.YourWord.Word) != turn.NewTurn.WordLength {
		t.Fatalf("advertised word length %d does not match %q", turn.NewTurn.WordLength, word.YourWord.Word)
	}

	bobTurn := recvType(t, ctx, bob, "newTurn")
	if bobTurn.NewTurn.DrawerName != "Alice" {
		t.Fatalf("want Alice as drawer for bob, got %+v", bobTurn.NewTurn)
	}

	// A stroke from the drawer reaches the guesser only.
	send(t, ctx, alice, types.ClientMessage{Type: "draw", RoomID: "r1", X0: 1, Y0: 2, X1: 3, Y1: 4})
	stroke := recvType(t, ctx, bob, "draw")
	if stroke.Draw.X1 != 3 {
		t.Fatalf("stroke not relayed verbatim: %+v", stroke.Draw)
	}

	// Bob chats a wrong guess, then the right word.
	send(t, ctx, bob, types.ClientMessage{Type: "guessWord", RoomID: "r1", Guess: "wrong-guess"})
	chat := recvType(t, ctx, bob, "chatMessage")
	if chat.Chat.Message != "wrong-guess" || chat.Chat.PlayerName != "Bob" {
		t.Fatalf("want bob's raw chat, got %+v", chat.Chat)
	}
	_ = recvType(t, ctx, alice, "chatMessage")

	send(t, ctx, bob, types.ClientMessage{Type: "guessWord", RoomID: "r1", Guess: word.YourWord.Word})
	_ = recvType(t, ctx, bob, "chatMessage")
	correct := recvType(t, ctx, bob, "correctGuess")
	if correct.CorrectGuess.PlayerName != "Bob" {
		t.Fatalf("want Bob credited, got %+v", correct.CorrectGuess)
	}
	for id, score := range correct.CorrectGuess.Scores {
		if correct.CorrectGuess.PlayerID == id && score != 100 {
			t.Fatalf("want 100 points for bob, got %d", score)
		}
	}
	_ = recvType(t, ctx, bob, "roomState")

	// Bob was the only guesser, so the turn advances on its own.
	next := recvType(t, ctx, bob, "newTurn")
	if next.NewTurn.Round != 2 || next.NewTurn.DrawerName != "Bob" {
		t.Fatalf("want Bob drawing round 2, got %+v", next.NewTurn)
	}
}

func TestHandler_DisconnectLeavesRoom(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h := hub.NewHub(ctx, zap.NewNop())
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	alice := dial(t, ctx, srv)
	defer alice.Close(websocket.StatusNormalClosure, "")
	bob := dial(t, ctx, srv)

	send(t, ctx, alice, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: "Alice"})
	_ = recvType(t, ctx, alice, "roomState")
	send(t, ctx, bob, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: "Bob"})
	_ = recvType(t, ctx, alice, "roomState")
	_ = recvType(t, ctx, bob, "roomState")

	bob.Close(websocket.StatusNormalClosure, "leaving")

	snap := recvType(t, ctx, alice, "roomState")
	if len(snap.RoomState.Players) != 1 || snap.RoomState.Players[0].Name != "Alice" {
		t.Fatalf("want Alice alone after bob disconnects, got %+v", snap.RoomState.Players)
	}
	if len(snap.RoomState.Scores) != 1 {
		t.Fatalf("bob's score entry must be gone, got %+v", snap.RoomState.Scores)
	}
}

func TestHandler_MalformedAndUnroutableMessagesAreIgnored(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h := hub.NewHub(ctx, zap.NewNop())
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, ctx, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// None of these may produce a reply or kill the connection.
	_ = conn.Write(ctx, websocket.MessageText, []byte(`{not json`))
	send(t, ctx, conn, types.ClientMessage{Type: "startGame", RoomID: "nowhere"})
	send(t, ctx, conn, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: ""})
	send(t, ctx, conn, types.ClientMessage{Type: "no-such-event", RoomID: "r1"})

	send(t, ctx, conn, types.ClientMessage{Type: "joinRoom", RoomID: "r1", PlayerName: "Alice"})
	snap := recvType(t, ctx, conn, "roomState")
	if len(snap.RoomState.Players) != 1 {
		t.Fatalf("connection should still work after garbage input, got %+v", snap.RoomState)
	}
}

package types

import "github.com/DoyleJ11/draw-guess-backend/internal/engine"

// ClientMessage is the inbound wire union. Type selects which of the other
// fields are meaningful:
//
//	joinRoom:  room_id, player_name
//	startGame: room_id
//	nextTurn:  room_id
//	draw:      room_id, x0, y0, x1, y1
//	guessWord: room_id, guess
type ClientMessage struct {
	Type       string  `json:"type"`
	RoomID     string  `json:"roomId,omitempty"`
	PlayerName string  `json:"playerName,omitempty"`
	Guess      string  `json:"guess,omitempty"`
	X0         float64 `json:"x0,omitempty"`
	Y0         float64 `json:"y0,omitempty"`
	X1         float64 `json:"x1,omitempty"`
	Y1         float64 `json:"y1,omitempty"`
}

// ServerMessage is the outbound wire union; exactly one payload field is set,
// matching Type ("roomState" | "newTurn" | "yourWord" | "draw" |
// "chatMessage" | "correctGuess" | "gameOver").
type ServerMessage struct {
	Type         string                   `json:"type"`
	RoomState    *engine.RoomStateData    `json:"roomState,omitempty"`
	NewTurn      *engine.NewTurnData      `json:"newTurn,omitempty"`
	YourWord     *engine.WordData         `json:"yourWord,omitempty"`
	Draw         *engine.Stroke           `json:"draw,omitempty"`
	Chat         *engine.ChatData         `json:"chatMessage,omitempty"`
	CorrectGuess *engine.CorrectGuessData `json:"correctGuess,omitempty"`
	GameOver     *engine.GameOverData     `json:"gameOver,omitempty"`
}

// FromEvent translates an engine event into its wire form.
func FromEvent(ev engine.Event) ServerMessage {
	switch ev.Type {
	case engine.EvtRoomState:
		return ServerMessage{Type: "roomState", RoomState: ev.RoomState}
	case engine.EvtNewTurn:
		return ServerMessage{Type: "newTurn", NewTurn: ev.NewTurn}
	case engine.EvtYourWord:
		return ServerMessage{Type: "yourWord", YourWord: ev.YourWord}
	case engine.EvtDraw:
		return ServerMessage{Type: "draw", Draw: ev.Draw}
	case engine.EvtChat:
		return ServerMessage{Type: "chatMessage", Chat: ev.Chat}
	case engine.EvtCorrectGuess:
		return ServerMessage{Type: "correctGuess", CorrectGuess: ev.CorrectGuess}
	case engine.EvtGameOver:
		return ServerMessage{Type: "gameOver", GameOver: ev.GameOver}
	default:
		return ServerMessage{Type: string(ev.Type)}
	}
}

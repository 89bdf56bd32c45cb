package engine

import "maps"

type EventType string

const (
	EvtRoomState    EventType = "RoomState"
	EvtNewTurn      EventType = "NewTurn"
	EvtYourWord     EventType = "YourWord"
	EvtDraw         EventType = "Draw"
	EvtChat         EventType = "Chat"
	EvtCorrectGuess EventType = "CorrectGuess"
	EvtGameOver     EventType = "GameOver"
)

type Scope string

const (
	// ScopeRoom delivers to every player in the room.
	ScopeRoom Scope = "room"
	// ScopePlayer delivers to Target only.
	ScopePlayer Scope = "player"
	// ScopeExcept delivers to everyone but Target.
	ScopeExcept Scope = "except"
)

// Event is one addressed outbound notification. Exactly one payload pointer
// is set, matching Type. Payloads hold copies of the state they describe, so
// they stay valid after the room mutates further.
type Event struct {
	Type   EventType
	Scope  Scope
	Target PlayerID

	RoomState    *RoomStateData
	NewTurn      *NewTurnData
	YourWord     *WordData
	Draw         *Stroke
	Chat         *ChatData
	CorrectGuess *CorrectGuessData
	GameOver     *GameOverData
}

type PlayerView struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Guessed  bool     `json:"guessed"`
	IsDrawer bool     `json:"isDrawer"`
}

type RoomStateData struct {
	RoomID    string           `json:"roomId"`
	Players   []PlayerView     `json:"players"`
	Scores    map[PlayerID]int `json:"scores"`
	Round     int              `json:"round"`
	MaxRounds int              `json:"maxRounds"`
}

type NewTurnData struct {
	RoomID     string   `json:"roomId"`
	DrawerID   PlayerID `json:"drawerId"`
	DrawerName string   `json:"drawerName"`
	Round      int      `json:"round"`
	MaxRounds  int      `json:"maxRounds"`
	WordLength int      `json:"wordLength"`
}

type WordData struct {
	Word string `json:"word"`
}

type ChatData struct {
	PlayerID   PlayerID `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Message    string   `json:"message"`
}

type CorrectGuessData struct {
	PlayerID   PlayerID         `json:"playerId"`
	PlayerName string           `json:"playerName"`
	Scores     map[PlayerID]int `json:"scores"`
}

type GameOverData struct {
	Scores map[PlayerID]int `json:"scores"`
}

// roomStateEvent snapshots the room for broadcast. IsDrawer is derived from
// the live drawer index: if the recorded drawer left mid-turn, whoever now
// sits at the clamped index is presented as drawer.
func roomStateEvent(s State) Event {
	players := make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Guessed:  p.Guessed,
			IsDrawer: i == s.DrawerIndex,
		}
	}
	return Event{
		Type:  EvtRoomState,
		Scope: ScopeRoom,
		RoomState: &RoomStateData{
			RoomID:    s.RoomID,
			Players:   players,
			Scores:    maps.Clone(s.Scores),
			Round:     s.Round,
			MaxRounds: s.MaxRounds,
		},
	}
}

func newTurnEvent(s State, drawer Player) Event {
	return Event{
		Type:  EvtNewTurn,
		Scope: ScopeRoom,
		NewTurn: &NewTurnData{
			RoomID:     s.RoomID,
			DrawerID:   drawer.ID,
			DrawerName: drawer.Name,
			Round:      s.Round,
			MaxRounds:  s.MaxRounds,
			WordLength: len(s.Word),
		},
	}
}

func yourWordEvent(drawer PlayerID, word string) Event {
	return Event{
		Type:     EvtYourWord,
		Scope:    ScopePlayer,
		Target:   drawer,
		YourWord: &WordData{Word: word},
	}
}

func drawEvent(sender PlayerID, stroke Stroke) Event {
	return Event{
		Type:   EvtDraw,
		Scope:  ScopeExcept,
		Target: sender,
		Draw:   &stroke,
	}
}

func chatEvent(p Player, message string) Event {
	return Event{
		Type:  EvtChat,
		Scope: ScopeRoom,
		Chat: &ChatData{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Message:    message,
		},
	}
}

func correctGuessEvent(s State, p Player) Event {
	return Event{
		Type:  EvtCorrectGuess,
		Scope: ScopeRoom,
		CorrectGuess: &CorrectGuessData{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Scores:     maps.Clone(s.Scores),
		},
	}
}

func gameOverEvent(s State) Event {
	return Event{
		Type:     EvtGameOver,
		Scope:    ScopeRoom,
		GameOver: &GameOverData{Scores: maps.Clone(s.Scores)},
	}
}

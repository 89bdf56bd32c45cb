package engine

import (
	"errors"
	"slices"
	"strings"
)

var ErrNoPlayers = errors.New("room has no players")
var ErrUnknownPlayer = errors.New("player not in room")
var ErrEmptyInput = errors.New("empty input")
var ErrUnsupportedCommand = errors.New("unsupported command")

// PlayerID is issued by the transport layer at connect time. The engine
// treats it as opaque; uniqueness per live connection is the only assumption.
type PlayerID string

type Player struct {
	ID      PlayerID
	Name    string
	Guessed bool
}

// State is the full per-room game state. Players is insertion-ordered and
// defines the drawer rotation. Scores keys always equal the ids of the
// currently joined players.
type State struct {
	RoomID      string
	Players     []Player
	DrawerIndex int
	Word        string
	Scores      map[PlayerID]int
	Round       int
	MaxRounds   int
}

const DefaultMaxRounds = 5

const CorrectGuessPoints = 100

type CommandType string

const (
	CmdJoin     CommandType = "Join"
	CmdLeave    CommandType = "Leave"
	CmdStart    CommandType = "Start"
	CmdNextTurn CommandType = "NextTurn"
	CmdGuess    CommandType = "Guess"
	CmdDraw     CommandType = "Draw"
)

type Command struct {
	Type   CommandType
	Player PlayerID
	Name   string
	Guess  string
	Stroke Stroke
}

// Stroke is one line segment of the drawing, relayed verbatim.
type Stroke struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Apply runs one command against the room state and returns the addressed
// notifications it produced. Invalid input (unknown player, empty guess,
// duplicate join) comes back as a sentinel error with the state unchanged;
// the room loop drops those silently rather than answering the client.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdJoin:
		return applyJoin(s, cmd)

	case CmdLeave:
		return applyLeave(s, cmd)

	case CmdStart:
		// Restart is always allowed; the previous game need not have ended.
		s.Round = 0
		s.DrawerIndex = 0
		events, next := advanceTurn(s)
		return events, next, nil

	case CmdNextTurn:
		if len(s.Players) == 0 {
			return nil, s, ErrNoPlayers
		}
		s.DrawerIndex++
		events, next := advanceTurn(s)
		return events, next, nil

	case CmdGuess:
		return applyGuess(s, cmd)

	case CmdDraw:
		// The sender is trusted to be the drawer; the segment is relayed
		// untouched to everyone else in the room.
		return []Event{drawEvent(cmd.Player, cmd.Stroke)}, s, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyJoin(s State, cmd Command) ([]Event, State, error) {
	if cmd.Name == "" {
		return nil, s, ErrEmptyInput
	}
	if playerIndex(s, cmd.Player) != -1 {
		// Duplicate join event: keep roster and scores untouched, but
		// re-send the snapshot like the first join did.
		return []Event{roomStateEvent(s)}, s, nil
	}

	s.Players = append(slices.Clone(s.Players), Player{ID: cmd.Player, Name: cmd.Name})
	if _, ok := s.Scores[cmd.Player]; !ok {
		s.Scores[cmd.Player] = 0
	}
	return []Event{roomStateEvent(s)}, s, nil
}

func applyLeave(s State, cmd Command) ([]Event, State, error) {
	i := playerIndex(s, cmd.Player)
	if i == -1 {
		return nil, s, ErrUnknownPlayer
	}

	s.Players = slices.Delete(slices.Clone(s.Players), i, i+1)
	delete(s.Scores, cmd.Player)

	if len(s.Players) == 0 {
		// Nobody left to notify; the caller destroys the room.
		return nil, s, nil
	}
	if s.DrawerIndex >= len(s.Players) {
		s.DrawerIndex = 0
	}
	return []Event{roomStateEvent(s)}, s, nil
}

// advanceTurn moves the room into its next turn: bumps the round, ends the
// game past MaxRounds, otherwise rotates the drawer, draws a fresh word and
// clears every guessed flag. The word text goes to the drawer alone;
// everyone else only learns its length.
func advanceTurn(s State) ([]Event, State) {
	if len(s.Players) == 0 {
		return nil, s
	}

	s.Round++
	if s.Round > s.MaxRounds {
		over := gameOverEvent(s)
		s.Round = 0
		s.DrawerIndex = 0
		s.Word = ""
		return []Event{over}, s
	}

	if s.DrawerIndex >= len(s.Players) {
		s.DrawerIndex = 0
	}
	drawer := s.Players[s.DrawerIndex]
	s.Word = pickWord()

	players := slices.Clone(s.Players)
	for i := range players {
		players[i].Guessed = false
	}
	s.Players = players

	return []Event{newTurnEvent(s, drawer), yourWordEvent(drawer.ID, s.Word)}, s
}

func applyGuess(s State, cmd Command) ([]Event, State, error) {
	if cmd.Guess == "" {
		return nil, s, ErrEmptyInput
	}
	i := playerIndex(s, cmd.Player)
	if i == -1 {
		return nil, s, ErrUnknownPlayer
	}
	player := s.Players[i]

	// Chat and guessing share one channel: the raw text always goes out,
	// correct or not.
	events := []Event{chatEvent(player, cmd.Guess)}

	normalized := strings.ToLower(strings.TrimSpace(cmd.Guess))
	correct := s.Word != "" &&
		normalized != "" &&
		normalized == strings.ToLower(s.Word)

	if !correct || player.Guessed {
		return events, s, nil
	}

	players := slices.Clone(s.Players)
	players[i].Guessed = true
	s.Players = players
	s.Scores[cmd.Player] += CorrectGuessPoints

	events = append(events, correctGuessEvent(s, players[i]), roomStateEvent(s))

	if allNonDrawersGuessed(s) {
		s.DrawerIndex++
		turnEvents, next := advanceTurn(s)
		s = next
		events = append(events, turnEvents...)
	}
	return events, s, nil
}

// allNonDrawersGuessed uses the live drawer index, so after the drawer left
// mid-turn every remaining player counts as a guesser.
func allNonDrawersGuessed(s State) bool {
	nonDrawers := 0
	for i, p := range s.Players {
		if i == s.DrawerIndex {
			continue
		}
		nonDrawers++
		if !p.Guessed {
			return false
		}
	}
	return nonDrawers > 0
}

func playerIndex(s State, id PlayerID) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

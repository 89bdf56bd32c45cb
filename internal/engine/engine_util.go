package engine

// NewRoomState is the state a room carries when it is created on first join:
// empty roster, no word, round 0, default round cap.
func NewRoomState(roomID string) State {
	return State{
		RoomID:    roomID,
		Players:   []Player{},
		Scores:    map[PlayerID]int{},
		MaxRounds: DefaultMaxRounds,
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

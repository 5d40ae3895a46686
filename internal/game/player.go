package game

import (
	"time"
)

// Player represents a joined participant in a room. The host is not a
// Player; it is tracked separately on the Room.
type Player struct {
	ID   string
	Name string

	// Round state, reset when a new round starts.
	ReactionTime float64 // seconds since the red signal, 0 until clicked
	HasClicked   bool

	// Score accumulates across rounds and survives until the player
	// leaves or the room is destroyed.
	Score int

	JoinedAt time.Time
}

// NewPlayer creates a new player keyed by its connection ID.
func NewPlayer(id, name string, joinedAt time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		JoinedAt: joinedAt,
	}
}

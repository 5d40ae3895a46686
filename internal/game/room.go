package game

import (
	"sync"
	"time"
)

// Phase represents where a room is in its round cycle.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseWaiting Phase = "waiting"
	PhaseArmed   Phase = "armed"
	PhaseRanking Phase = "ranking"
)

// HostName is the display name used for the host in roster broadcasts.
const HostName = "Host"

// Room is one isolated game session. All round state lives here and is
// guarded by the room's own mutex, so rooms never contend with each other.
type Room struct {
	Code       string
	HostID     string
	Players    map[string]*Player
	Phase      Phase
	ArmedAt    time.Time
	MaxPlayers int
	CreatedAt  time.Time

	// Join order, so roster broadcasts and ranking tie-breaks are stable.
	order []string

	mu sync.RWMutex
}

// NewRoom creates a room in the lobby phase owned by the given host
// connection.
func NewRoom(code, hostID string, maxPlayers int, createdAt time.Time) *Room {
	return &Room{
		Code:       code,
		HostID:     hostID,
		Players:    make(map[string]*Player),
		Phase:      PhaseLobby,
		MaxPlayers: maxPlayers,
		CreatedAt:  createdAt,
	}
}

// AddPlayer adds a player to the room.
func (r *Room) AddPlayer(player *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addPlayerLocked(player)
}

func (r *Room) addPlayerLocked(player *Player) error {
	if r.MaxPlayers > 0 && len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}

	r.Players[player.ID] = player
	r.order = append(r.order, player.ID)
	return nil
}

// RemovePlayer removes a player from the room.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removePlayerLocked(playerID)
}

func (r *Room) removePlayerLocked(playerID string) {
	if _, ok := r.Players[playerID]; !ok {
		return
	}

	delete(r.Players, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetPlayer retrieves a player by connection ID.
func (r *Room) GetPlayer(playerID string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Players[playerID]
}

// PlayerCount returns the number of joined players, host excluded.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Players)
}

// Roster returns the display names for the player list broadcast:
// host first, then players in join order.
func (r *Room) Roster() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rosterLocked()
}

func (r *Room) rosterLocked() []string {
	names := make([]string, 0, len(r.order)+1)
	names = append(names, HostName)
	for _, id := range r.order {
		names = append(names, r.Players[id].Name)
	}
	return names
}

// playersInOrderLocked returns the players in join order.
func (r *Room) playersInOrderLocked() []*Player {
	players := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, r.Players[id])
	}
	return players
}

// resetRoundLocked clears every player's click state for a fresh round.
// Scores are untouched; they persist for the lifetime of the room.
func (r *Room) resetRoundLocked() {
	for _, p := range r.Players {
		p.ReactionTime = 0
		p.HasClicked = false
	}
	r.ArmedAt = time.Time{}
}

// allClickedLocked reports whether every current player has clicked.
// Vacuously true for an empty room; callers guard against that.
func (r *Room) allClickedLocked() bool {
	for _, p := range r.Players {
		if !p.HasClicked {
			return false
		}
	}
	return true
}

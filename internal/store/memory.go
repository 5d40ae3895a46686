package store

import (
	"crypto/rand"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"

	"redlight/internal/config"
	"redlight/internal/game"
)

// ErrRoomNotFound is returned when a room code has no live room.
var ErrRoomNotFound = errors.New("room not found")

// MemoryStore holds all live rooms in memory. It is the single owner of
// the code → room mapping; rooms do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room

	codeLength int
	maxPlayers int
	clock      clockwork.Clock
}

// NewMemoryStore creates a registry configured from server settings.
func NewMemoryStore(cfg *config.ServerConfig, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		rooms:      make(map[string]*game.Room),
		codeLength: cfg.Game.RoomCodeLength,
		maxPlayers: cfg.Game.MaxPlayersPerRoom,
		clock:      clock,
	}
}

// CreateRoom creates a new room in the lobby phase owned by the given
// host connection. The code is guaranteed unique among live rooms.
func (s *MemoryStore) CreateRoom(hostID string) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		code = generateRoomCode(s.codeLength)
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}

	room := game.NewRoom(code, hostID, s.maxPlayers, s.clock.Now())
	s.rooms[code] = room
	return room, nil
}

// GetRoom retrieves a room by code.
func (s *MemoryStore) GetRoom(code string) (*game.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[code]
	if !exists {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// DeleteRoom removes a room. Deleting an unknown code is a no-op so the
// host-loss cascade and a late timer never race into an error.
func (s *MemoryStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, code)
}

// Len returns the number of live rooms.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

// generateRoomCode generates an uppercase alphanumeric code.
func generateRoomCode(length int) string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}

	return string(b)
}

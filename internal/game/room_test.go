package game

import (
	"testing"
	"time"
)

func newTestRoom(maxPlayers int) *Room {
	return NewRoom("TEST1", "host-conn", maxPlayers, time.Now())
}

func TestRoom_AddPlayer(t *testing.T) {
	room := newTestRoom(4)

	player := NewPlayer("p1", "Alice", time.Now())

	if err := room.AddPlayer(player); err != nil {
		t.Errorf("Failed to add player: %v", err)
	}

	if room.PlayerCount() != 1 {
		t.Errorf("Expected 1 player, got %d", room.PlayerCount())
	}

	if room.GetPlayer("p1") == nil {
		t.Error("Player not found after adding")
	}
}

func TestRoom_MaxPlayers(t *testing.T) {
	room := newTestRoom(2)

	if err := room.AddPlayer(NewPlayer("p1", "Alice", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := room.AddPlayer(NewPlayer("p2", "Bob", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := room.AddPlayer(NewPlayer("p3", "Carol", time.Now()))
	if err != ErrRoomFull {
		t.Errorf("Expected ErrRoomFull, got %v", err)
	}
}

func TestRoom_RemovePlayer(t *testing.T) {
	room := newTestRoom(4)

	room.AddPlayer(NewPlayer("p1", "Alice", time.Now()))
	room.AddPlayer(NewPlayer("p2", "Bob", time.Now()))

	room.RemovePlayer("p1")

	if room.GetPlayer("p1") != nil {
		t.Error("Player still present after removal")
	}
	if room.PlayerCount() != 1 {
		t.Errorf("Expected 1 player, got %d", room.PlayerCount())
	}

	// Removing an unknown ID must be a no-op.
	room.RemovePlayer("nope")
	if room.PlayerCount() != 1 {
		t.Errorf("Expected 1 player after no-op removal, got %d", room.PlayerCount())
	}
}

func TestRoom_RosterOrder(t *testing.T) {
	room := newTestRoom(10)

	room.AddPlayer(NewPlayer("p1", "Alice", time.Now()))
	room.AddPlayer(NewPlayer("p2", "Bob", time.Now()))
	room.AddPlayer(NewPlayer("p3", "Carol", time.Now()))

	roster := room.Roster()

	want := []string{HostName, "Alice", "Bob", "Carol"}
	if len(roster) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(roster))
	}
	for i, name := range want {
		if roster[i] != name {
			t.Errorf("roster[%d] = %q, want %q", i, roster[i], name)
		}
	}

	// Removal keeps the remaining order intact.
	room.RemovePlayer("p2")
	roster = room.Roster()
	want = []string{HostName, "Alice", "Carol"}
	for i, name := range want {
		if roster[i] != name {
			t.Errorf("after removal roster[%d] = %q, want %q", i, roster[i], name)
		}
	}
}

func TestRoom_ResetRound(t *testing.T) {
	room := newTestRoom(4)

	p := NewPlayer("p1", "Alice", time.Now())
	room.AddPlayer(p)

	p.HasClicked = true
	p.ReactionTime = 0.42
	p.Score = 7

	room.mu.Lock()
	room.resetRoundLocked()
	room.mu.Unlock()

	if p.HasClicked {
		t.Error("HasClicked not cleared by round reset")
	}
	if p.ReactionTime != 0 {
		t.Error("ReactionTime not cleared by round reset")
	}
	if p.Score != 7 {
		t.Error("Score must survive a round reset")
	}
}

func TestRoom_AllClicked(t *testing.T) {
	room := newTestRoom(4)

	p1 := NewPlayer("p1", "Alice", time.Now())
	p2 := NewPlayer("p2", "Bob", time.Now())
	room.AddPlayer(p1)
	room.AddPlayer(p2)

	room.mu.RLock()
	all := room.allClickedLocked()
	room.mu.RUnlock()
	if all {
		t.Error("allClicked should be false with no clicks")
	}

	p1.HasClicked = true
	p2.HasClicked = true

	room.mu.RLock()
	all = room.allClickedLocked()
	room.mu.RUnlock()
	if !all {
		t.Error("allClicked should be true once every player clicked")
	}
}

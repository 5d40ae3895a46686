package game

import (
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"redlight/internal/protocol"
)

// Registry owns the live rooms. Implemented by store.MemoryStore.
type Registry interface {
	CreateRoom(hostID string) (*Room, error)
	GetRoom(code string) (*Room, error)
	DeleteRoom(code string)
}

// Notifier delivers notifications to connections. Implemented by the
// websocket gateway. Broadcast must reach exactly the connections in
// the given room's group, never another room's.
type Notifier interface {
	// Send delivers a message to a single connection.
	Send(connID string, msg any)
	// Broadcast delivers a message to every connection in the room.
	Broadcast(roomCode string, msg any)
	// JoinGroup adds a connection to the room's broadcast group.
	JoinGroup(roomCode, connID string)
	// RoomClosed tears down the room's broadcast group after the
	// room has been destroyed. Messages already queued still drain.
	RoomClosed(roomCode string)
}

// Engine drives the round lifecycle for every room: phase transitions,
// the delayed red signal, click timing, and ranking. All mutations of a
// room happen under that room's mutex, so intents within one room are
// serialized while separate rooms proceed independently.
type Engine struct {
	registry Registry
	notifier Notifier
	clock    clockwork.Clock

	armDelayMin time.Duration
	armDelayMax time.Duration
}

// NewEngine creates an engine. The clock is injectable so tests can
// drive the delayed arm transition with a fake clock.
func NewEngine(registry Registry, notifier Notifier, clock clockwork.Clock, armDelayMin, armDelayMax time.Duration) *Engine {
	return &Engine{
		registry:    registry,
		notifier:    notifier,
		clock:       clock,
		armDelayMin: armDelayMin,
		armDelayMax: armDelayMax,
	}
}

// CreateRoom creates a room hosted by the given connection and tells
// the creator its code. Nobody else is notified; the code is shared
// out of band.
func (e *Engine) CreateRoom(connID string) (string, error) {
	room, err := e.registry.CreateRoom(connID)
	if err != nil {
		e.notifier.Send(connID, protocol.NewError("Could not create a room. Please try again."))
		return "", err
	}

	e.notifier.JoinGroup(room.Code, connID)
	e.notifier.Send(connID, protocol.NewRoomCreated(room.Code))

	log.Info().Str("room", room.Code).Str("conn", connID).Msg("room created")
	return room.Code, nil
}

// Join adds a connection to a room as a player. The joiner gets
// joinedRoom and the whole room gets a fresh player list. Failures are
// reported to the joiner only.
func (e *Engine) Join(connID, code, name string) error {
	if name == "" {
		e.notifier.Send(connID, protocol.NewError("Please enter a username."))
		return ErrEmptyName
	}

	room, err := e.registry.GetRoom(code)
	if err != nil {
		e.notifier.Send(connID, protocol.NewError("No such game room."))
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if connID == room.HostID {
		e.notifier.Send(connID, protocol.NewError("You are already the host of this room."))
		return ErrAlreadyHost
	}

	player := NewPlayer(connID, name, e.clock.Now())
	if err := room.addPlayerLocked(player); err != nil {
		e.notifier.Send(connID, protocol.NewError("That room is full."))
		return err
	}

	e.notifier.JoinGroup(code, connID)
	e.notifier.Send(connID, protocol.NewJoinedRoom(code))
	e.notifier.Broadcast(code, protocol.NewPlayerList(room.rosterLocked()))

	log.Info().Str("room", code).Str("conn", connID).Str("player", name).Msg("player joined")
	return nil
}

// StartRound begins a round: phase moves to Waiting, click state is
// cleared, and the red signal is scheduled after a random delay so
// players cannot time it by rhythm. Host-only, lobby-only; anything
// else is a silent no-op.
func (e *Engine) StartRound(connID, code string) error {
	room, err := e.registry.GetRoom(code)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.HostID != connID {
		return ErrNotHost
	}
	if room.Phase != PhaseLobby {
		return ErrWrongPhase
	}

	room.resetRoundLocked()
	room.Phase = PhaseWaiting
	e.notifier.Broadcast(code, protocol.NewGameWaiting())

	delay := e.armDelay()
	timer := e.clock.NewTimer(delay)
	go func() {
		<-timer.Chan()
		e.arm(code)
	}()

	log.Info().Str("room", code).Dur("delay", delay).Msg("round started")
	return nil
}

// armDelay draws the wait before the red signal uniformly from the
// configured interval.
func (e *Engine) armDelay() time.Duration {
	span := e.armDelayMax - e.armDelayMin
	if span <= 0 {
		return e.armDelayMin
	}
	return e.armDelayMin + rand.N(span)
}

// arm is the delayed transition to the Armed phase. The room may have
// been destroyed or reset to the lobby while the timer ran, so both are
// re-checked on wake; in either case the signal simply never fires.
func (e *Engine) arm(code string) {
	room, err := e.registry.GetRoom(code)
	if err != nil {
		log.Debug().Str("room", code).Msg("arm timer fired for destroyed room")
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Phase != PhaseWaiting {
		log.Debug().Str("room", code).Str("phase", string(room.Phase)).Msg("arm timer fired outside waiting phase")
		return
	}

	room.Phase = PhaseArmed
	room.ArmedAt = e.clock.Now()
	e.notifier.Broadcast(code, protocol.NewGameRed())

	log.Info().Str("room", code).Msg("room armed")
}

// Click records a player's reaction. Only the first click per round
// counts; clicks outside the Armed phase and clicks from the host are
// accepted but inert. When the last remaining player clicks, the round
// completes and the ranking is broadcast. There is no timeout: a round
// whose players never click stays Armed until the host resets it.
func (e *Engine) Click(connID, code string) error {
	room, err := e.registry.GetRoom(code)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Phase != PhaseArmed {
		return ErrWrongPhase
	}

	// The host races along with everyone else but is never scored and
	// never counts toward round completion.
	if connID == room.HostID {
		return nil
	}

	player := room.Players[connID]
	if player == nil {
		return nil
	}
	if player.HasClicked {
		return ErrAlreadyClicked
	}

	elapsed := e.clock.Now().Sub(room.ArmedAt)
	player.ReactionTime = float64(elapsed.Milliseconds()) / 1000.0
	player.HasClicked = true

	log.Debug().Str("room", code).Str("player", player.Name).Float64("reaction", player.ReactionTime).Msg("click recorded")

	if room.allClickedLocked() {
		e.finishRoundLocked(room)
	}
	return nil
}

// finishRoundLocked computes the ranking, folds the points into the
// cumulative scores, and broadcasts the results. Caller holds the room
// lock.
func (e *Engine) finishRoundLocked(room *Room) {
	entries := ComputeRanking(room.playersInOrderLocked())
	room.Phase = PhaseRanking
	e.notifier.Broadcast(room.Code, protocol.NewRanking(entries))

	log.Info().Str("room", room.Code).Int("players", len(entries)).Msg("round complete")
}

// NextRound returns the room to the lobby. Host-only, but valid from
// any phase so the host can bail out of a stalled round.
func (e *Engine) NextRound(connID, code string) error {
	room, err := e.registry.GetRoom(code)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.HostID != connID {
		return ErrNotHost
	}

	room.resetRoundLocked()
	room.Phase = PhaseLobby
	e.notifier.Broadcast(code, protocol.NewShowLobby())
	e.notifier.Broadcast(code, protocol.NewPlayerList(room.rosterLocked()))

	log.Info().Str("room", code).Msg("room returned to lobby")
	return nil
}

// Leave handles a connection dropping out of a room. A departing host
// is fatal: remaining participants are told and the room is destroyed.
// A departing player is removed from the roster, which may complete a
// round that was waiting on their click.
func (e *Engine) Leave(connID, code string) {
	room, err := e.registry.GetRoom(code)
	if err != nil {
		return
	}

	room.mu.Lock()

	if room.HostID == connID {
		e.notifier.Broadcast(code, protocol.NewError("The host has disconnected, the game is over."))
		room.mu.Unlock()

		e.registry.DeleteRoom(code)
		e.notifier.RoomClosed(code)

		log.Info().Str("room", code).Msg("room destroyed, host disconnected")
		return
	}

	defer room.mu.Unlock()

	if _, ok := room.Players[connID]; !ok {
		return
	}

	room.removePlayerLocked(connID)
	e.notifier.Broadcast(code, protocol.NewPlayerList(room.rosterLocked()))

	log.Info().Str("room", code).Str("conn", connID).Msg("player left")

	// The leaver may have been the only player yet to click.
	if room.Phase == PhaseArmed && len(room.Players) > 0 && room.allClickedLocked() {
		e.finishRoundLocked(room)
	}
}

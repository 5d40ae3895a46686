package gateway

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"redlight/internal/config"
	"redlight/internal/game"
	"redlight/internal/protocol"
)

// Dispatcher is the round engine as seen from the transport: one call
// per client intent, plus the disconnect hook. Implemented by
// game.Engine.
type Dispatcher interface {
	CreateRoom(connID string) (string, error)
	Join(connID, code, name string) error
	StartRound(connID, code string) error
	Click(connID, code string) error
	NextRound(connID, code string) error
	Leave(connID, code string)
}

// RoomFinder is the registry lookup used by the HTTP handlers.
type RoomFinder interface {
	GetRoom(code string) (*game.Room, error)
}

// Gateway owns every live websocket connection and the room-scoped
// broadcast groups. It translates inbound frames into engine calls and
// implements game.Notifier for the outbound direction. A connection
// belongs to at most one room at a time.
type Gateway struct {
	upgrader websocket.Upgrader
	engine   Dispatcher
	rooms    RoomFinder
	settings config.ServerSettings
	baseURL  string

	mu      sync.RWMutex
	clients map[string]*Client            // conn ID → client
	groups  map[string]map[string]*Client // room code → conn ID → client
}

// New creates a gateway. The engine is attached afterwards with
// SetEngine because engine and gateway reference each other.
func New(cfg *config.ServerConfig, rooms RoomFinder) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		rooms:    rooms,
		settings: cfg.Server,
		baseURL:  cfg.BaseURL(),
		clients:  make(map[string]*Client),
		groups:   make(map[string]map[string]*Client),
	}
}

// SetEngine attaches the round engine. Must be called before ServeWS.
func (g *Gateway) SetEngine(engine Dispatcher) {
	g.engine = engine
}

// ServeWS upgrades an HTTP request to a websocket session and starts
// its read/write loops.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan any, g.settings.SendBufferSize),
		gw:   g,
	}

	g.mu.Lock()
	g.clients[client.id] = client
	total := len(g.clients)
	g.mu.Unlock()

	log.Info().Str("conn", client.id).Str("remote", r.RemoteAddr).Int("connections", total).Msg("connection established")

	go client.writePump()
	go client.readPump()
}

// dispatch routes one inbound intent to the engine. Engine errors are
// deliberate no-ops at the protocol level (unauthorized and
// invalid-state intents stay silent), so they only get debug logs.
func (g *Gateway) dispatch(c *Client, intent protocol.Intent) {
	var err error

	switch intent.Type {
	case protocol.IntentCreateRoom:
		_, err = g.engine.CreateRoom(c.id)
	case protocol.IntentJoinRoom:
		err = g.engine.Join(c.id, intent.RoomCode, intent.Username)
	case protocol.IntentStartGame:
		err = g.engine.StartRound(c.id, intent.RoomCode)
	case protocol.IntentPlayerClicked:
		err = g.engine.Click(c.id, intent.RoomCode)
	case protocol.IntentNextGame:
		err = g.engine.NextRound(c.id, intent.RoomCode)
	default:
		log.Debug().Str("conn", c.id).Str("type", intent.Type).Msg("unknown intent dropped")
		return
	}

	if err != nil {
		log.Debug().Err(err).Str("conn", c.id).Str("type", intent.Type).Str("room", intent.RoomCode).Msg("intent rejected")
	}
}

// Send delivers a message to a single connection. A connection that
// cannot keep up is closed; its read loop handles the cleanup.
func (g *Gateway) Send(connID string, msg any) {
	g.mu.RLock()
	c := g.clients[connID]
	var slow bool
	if c != nil {
		select {
		case c.send <- msg:
		default:
			slow = true
		}
	}
	g.mu.RUnlock()

	if slow {
		log.Warn().Str("conn", connID).Msg("send buffer full, closing connection")
		c.conn.Close()
	}
}

// Broadcast delivers a message to every connection in the room's group.
// Slow connections are closed rather than allowed to stall the room;
// their read loops run the usual disconnect path.
func (g *Gateway) Broadcast(roomCode string, msg any) {
	g.mu.RLock()
	var slow []*Client
	for _, c := range g.groups[roomCode] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	g.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("conn", c.id).Str("room", roomCode).Msg("send buffer full, closing connection")
		c.conn.Close()
	}
}

// JoinGroup adds a connection to a room's broadcast group.
func (g *Gateway) JoinGroup(roomCode, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.clients[connID]
	if c == nil {
		return
	}

	if g.groups[roomCode] == nil {
		g.groups[roomCode] = make(map[string]*Client)
	}
	g.groups[roomCode][connID] = c
	c.room = roomCode
}

// RoomClosed drops a destroyed room's broadcast group. Remaining
// connections stay open but become unaffiliated; anything already
// queued to them still drains.
func (g *Gateway) RoomClosed(roomCode string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, c := range g.groups[roomCode] {
		c.room = ""
	}
	delete(g.groups, roomCode)
}

// dropClient removes a connection from all indexes and, if it was in a
// room, dispatches the disconnect to the engine. Idempotent; only the
// first call does anything.
func (g *Gateway) dropClient(c *Client) {
	g.mu.Lock()
	if _, ok := g.clients[c.id]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.clients, c.id)

	roomCode := c.room
	c.room = ""
	if roomCode != "" {
		if group := g.groups[roomCode]; group != nil {
			delete(group, c.id)
			if len(group) == 0 {
				delete(g.groups, roomCode)
			}
		}
	}
	close(c.send)
	g.mu.Unlock()

	log.Info().Str("conn", c.id).Str("room", roomCode).Msg("connection closed")

	if roomCode != "" {
		g.engine.Leave(c.id, roomCode)
	}
}

// ConnectionCount returns the number of live connections.
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.clients)
}

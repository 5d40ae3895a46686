package protocol

// Intent types accepted from clients.
const (
	IntentCreateRoom    = "createRoom"
	IntentJoinRoom      = "joinRoom"
	IntentStartGame     = "startGame"
	IntentPlayerClicked = "playerClicked"
	IntentNextGame      = "nextGame"
)

// Notification types sent to clients.
const (
	EventRoomCreated  = "roomCreated"
	EventJoinedRoom   = "joinedRoom"
	EventErrorMessage = "errorMessage"
	EventPlayerList   = "playerList"
	EventGameWaiting  = "gameWaiting"
	EventGameRed      = "gameRed"
	EventShowRanking  = "showRanking"
	EventShowLobby    = "showLobby"
)

// Intent is the envelope for every client → server message.
// RoomCode and Username are only present where the intent needs them.
type Intent struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode,omitempty"`
	Username string `json:"username,omitempty"`
}

// RoomRef carries a room code to a single connection
// (roomCreated to the host, joinedRoom to the joiner).
type RoomRef struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

// ErrorMessage is a user-facing error, scoped to the originating
// connection except for host loss, which is broadcast to the room.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PlayerList is the ordered roster broadcast, host first.
type PlayerList struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
}

// Signal is a payload-free phase notification
// (gameWaiting, gameRed, showLobby).
type Signal struct {
	Type string `json:"type"`
}

// RankEntry is one row of a round's results. Time is reaction time
// in seconds; clients format it for display.
type RankEntry struct {
	Name   string  `json:"name"`
	Time   float64 `json:"time"`
	Points int     `json:"points"`
}

// Ranking is the round results broadcast, fastest first.
type Ranking struct {
	Type    string      `json:"type"`
	Ranking []RankEntry `json:"ranking"`
}

func NewRoomCreated(code string) RoomRef {
	return RoomRef{Type: EventRoomCreated, RoomCode: code}
}

func NewJoinedRoom(code string) RoomRef {
	return RoomRef{Type: EventJoinedRoom, RoomCode: code}
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: EventErrorMessage, Message: message}
}

func NewPlayerList(names []string) PlayerList {
	return PlayerList{Type: EventPlayerList, Players: names}
}

func NewGameWaiting() Signal { return Signal{Type: EventGameWaiting} }
func NewGameRed() Signal     { return Signal{Type: EventGameRed} }
func NewShowLobby() Signal   { return Signal{Type: EventShowLobby} }

func NewRanking(entries []RankEntry) Ranking {
	return Ranking{Type: EventShowRanking, Ranking: entries}
}

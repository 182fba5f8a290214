package room

const (
	EventRoomStatus   = "waiting_for_players"
	EventGameStart    = "game_start"
	EventRosterUpdate = "players_update"
	EventChat         = "chat_message"
	EventWinner       = "announce_winner"
	EventPlayerLeft   = "player_left"
	EventRoomExpired  = "room_expired"
)

// Sender delivers an encoded event to a single connection. Alive reports
// whether the connection is still open; a closed one is never seated.
type Sender interface {
	Send(connectionID string, data []byte) error
	Alive(connectionID string) bool
}

type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type RoomStatus struct {
	CurrentCount  int     `json:"currentCount"`
	RequiredCount int     `json:"requiredCount"`
	Roster        []Entry `json:"roster"`
}

type GameStart struct {
	Roster []Entry `json:"roster"`
}

type RosterUpdate struct {
	Roster []Entry `json:"roster"`
}

type ChatBroadcast struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type PlayerLeft struct {
	DepartedID string  `json:"departedId"`
	Roster     []Entry `json:"roster"`
}

type RoomExpired struct {
	RoomID string `json:"roomId"`
}

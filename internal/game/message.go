package game

// Message is the websocket envelope. Inbound messages carry the event name
// in Type and a type-specific payload in Data.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Protocol events. The four client events each mutate one room and (except
// for a rejected start) trigger a full-snapshot broadcast to the room group.
const (
	EventJoin   = "room:join"
	EventStart  = "room:start"
	EventSend   = "room:send"
	EventLeave  = "room:leave"
	EventUpdate = "room:update"
)

type JoinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type StartPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type LeavePayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type SendPayload struct {
	RoomID  string       `json:"roomId"`
	Payload PlayerUpdate `json:"payload"`
}

// PlayerUpdate is the client's full reconstruction of its typed text. The
// client sends the whole string on every commit and backspace, so the server
// never has to splice keystrokes.
type PlayerUpdate struct {
	Name  string `json:"name"`
	Typed string `json:"typed"`
}

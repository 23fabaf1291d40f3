package signaling

import "encoding/json"

// Client-visible events.
const (
	EventConnected    = "connected"
	EventJoinRoom     = "join-room"
	EventUserJoined   = "user-joined"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventError        = "error"
)

// Frame is the single JSON shape exchanged over the signaling socket.
// Payload is relayed untouched.
type Frame struct {
	Event    string          `json:"event"`
	RoomID   string          `json:"roomId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Role     string          `json:"role,omitempty"`
	SocketID string          `json:"socketId,omitempty"`
	Target   string          `json:"target,omitempty"`
	From     string          `json:"from,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// Member is one socket's presence in a room.
type Member struct {
	SocketID string `json:"socketId"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
}

func (m Member) joinedFrame(roomID string) Frame {
	return Frame{
		Event:    EventUserJoined,
		RoomID:   roomID,
		UserID:   m.UserID,
		Role:     m.Role,
		SocketID: m.SocketID,
	}
}

func errorFrame(message string) Frame {
	return Frame{Event: EventError, Message: message}
}

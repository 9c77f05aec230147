package realtime

import "encoding/json"

// Event names shared with the browser clients. The mixed naming styles are
// part of the wire contract and must not be normalized.
const (
	EventRegisterUser    = "register_user"
	EventJoinRoom        = "join_room"
	EventLeaveRoom       = "leave_room"
	EventNewComment      = "new_comment"
	EventNewReply        = "new_reply"
	EventMarkAsRead      = "markAsRead"
	EventMarkAllAsRead   = "markAllAsRead"
	EventPatientResponse = "patient-response"

	EventUpdateOnlineUsers = "update_online_users"
	EventNotifyDoctor      = "notify-doctor"
	EventNotifyPatient     = "notify-patient"
)

// Envelope is the wire frame: every message in either direction is one JSON
// object carrying an event name and its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func NewEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

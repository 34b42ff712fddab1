package realtime

import "encoding/json"

// Wire event names. These are the external contract with the web
// client; renaming one breaks deployed clients.
const (
	// EventAddUser (client → server) announces the user identity for
	// this connection. Payload: user ID string.
	EventAddUser = "addUser"

	// EventOnlineUsers (server → all clients) carries the full roster
	// snapshot. Payload: array of user ID strings.
	EventOnlineUsers = "getOnlineUsers"

	// EventSendMessage (client → server) asks for live delivery of one
	// message. Payload: SendMessagePayload.
	EventSendMessage = "sendMessage"

	// EventReceiveMessage (server → recipient only) carries one
	// delivered message. Payload: deliver.Event.
	EventReceiveMessage = "receiveMessage"
)

// Envelope frames every message on the live channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the client payload for EventSendMessage.
type SendMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// newEnvelope marshals a payload into a framed wire message.
func newEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

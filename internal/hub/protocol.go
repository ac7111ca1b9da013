package hub

import "encoding/json"

type Message struct {
	Type     string          `json:"type"`
	ChartID  string          `json:"chartId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Server to client.
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeJoin    = "client.join"
	TypeLeave   = "client.leave"
	TypeClosed  = "chart.closed"
	TypeError   = "error"

	// Client to server.
	TypeAction = "action"
	TypeHover  = "hover"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Clients  int    `json:"clients"`
}

type PresencePayload struct {
	ClientID string `json:"clientId"`
	Clients  int    `json:"clients"`
}

// HoverPayload is a pointer position in chart pixels.
type HoverPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage marshals payload into a message of type typ.
func NewMessage(typ, chartID string, payload any) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return &Message{Type: typ, ChartID: chartID, Payload: raw}, nil
}

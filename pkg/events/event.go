package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Kind represents the type of a wall notification frame
type Kind string

// Notification kinds relayed between users
const (
	KindConnection Kind = "connection"
	KindLike       Kind = "like"
	KindComment    Kind = "comment"
	KindShare      Kind = "share"
	KindLogout     Kind = "logout"

	// KindInfo is only ever sent by the hub, once, right after connect
	KindInfo Kind = "info"
)

// AnonymousUser is used when a connection or event carries no identity
const AnonymousUser = "anonymous"

var (
	ErrMalformed   = errors.New("malformed event")
	ErrUnknownKind = errors.New("unknown event kind")
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether a client may emit this kind
func (k Kind) IsValid() bool {
	switch k {
	case KindConnection, KindLike, KindComment, KindShare, KindLogout:
		return true
	default:
		return false
	}
}

// Reloads reports whether receiving this kind should refresh the visible wall page
func (k Kind) Reloads() bool {
	return k == KindLike || k == KindComment || k == KindShare
}

// AllKinds returns every kind a client may emit
func AllKinds() []Kind {
	return []Kind{KindConnection, KindLike, KindComment, KindShare, KindLogout}
}

// MaxPreviewLength bounds, in runes, the comment text carried by a comment event.
// Encoded frames stay well below the hub's inbound read limit.
const MaxPreviewLength = 280

// Preview shortens text to at most MaxPreviewLength runes, ending a cut with an ellipsis
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= MaxPreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxPreviewLength-1]) + "…"
}

// Payload is the kind-specific data of an event
type Payload struct {
	Username    string `json:"username"`
	MessageID   string `json:"messageId,omitempty"`
	CommentText string `json:"commentText,omitempty"`
	Timestamp   string `json:"timestamp"`
	Message     string `json:"message,omitempty"`
}

// Event is the wire frame exchanged over the notification channel
type Event struct {
	Type Kind    `json:"type"`
	Data Payload `json:"data"`
}

// New builds an event for the given kind and acting user
func New(kind Kind, username string) *Event {
	if username == "" {
		username = AnonymousUser
	}
	return &Event{
		Type: kind,
		Data: Payload{
			Username:  username,
			Timestamp: Now(),
		},
	}
}

// NewInfo builds the informational frame the hub sends on connect
func NewInfo(message string) *Event {
	return &Event{
		Type: KindInfo,
		Data: Payload{Message: message, Timestamp: Now()},
	}
}

// Now returns the current time in the wire timestamp format
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Parse decodes a raw inbound frame and validates its kind. messageId is accepted
// either as a string or as a number and normalised to a string.
func Parse(raw []byte) (*Event, error) {
	var frame struct {
		Type Kind `json:"type"`
		Data struct {
			Username    string          `json:"username"`
			MessageID   json.RawMessage `json:"messageId"`
			CommentText string          `json:"commentText"`
			Timestamp   string          `json:"timestamp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !frame.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, frame.Type)
	}

	messageID, err := decodeID(frame.Data.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: messageId: %v", ErrMalformed, err)
	}

	return &Event{
		Type: frame.Type,
		Data: Payload{
			Username:    frame.Data.Username,
			MessageID:   messageID,
			CommentText: frame.Data.CommentText,
			Timestamp:   frame.Data.Timestamp,
		},
	}, nil
}

// Decode parses any frame a client can receive, including info frames
func Decode(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.Type != KindInfo && !ev.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Type)
	}
	return &ev, nil
}

// Encode serializes an event to its wire format
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

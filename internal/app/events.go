package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

// Wire event names, shared by inbound dispatch and outbound emission.
const (
	EvtConnected          = "connected"
	EvtJoinRoom           = "join-room"
	EvtSendMessage        = "send-message"
	EvtUserJoined         = "user-joined"
	EvtReadyStateChanged  = "ready-state-changed"
	EvtUserLeft           = "user-left"
	EvtFindAvailableRoom  = "find-available-room"
	EvtOffer              = "offer"
	EvtAnswer             = "answer"
	EvtIceCandidate       = "ice-candidate"
	EvtVoiceJoin          = "voice-join"
	EvtVoiceSignal        = "voice-signal"
	EvtParticipantsUpdate = "participants-update"
	EvtUserReadyUpdate    = "user-ready-update"
	EvtNewUser            = "new-user"
	EvtReceiveMessage     = "receive-message"
	EvtVoiceUserJoined    = "voice-user-joined"
)

// Envelope frames every message in both directions. Ack correlates a
// request with its direct reply (find-available-room).
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   string          `json:"ack,omitempty"`
}

// Outbound payloads. Opaque client data (sdp, candidates, signals, chat
// messages) stays json.RawMessage end to end, the relay never parses it.
type (
	ConnectedPayload struct {
		ConnID core.ConnID `json:"connId"`
	}
	UserReadyPayload struct {
		UserID  domain.UserID `json:"userId"`
		IsReady bool          `json:"isReady"`
	}
	UserLeftPayload struct {
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}
	OfferPayload struct {
		CallerID string          `json:"callerId"`
		SDP      json.RawMessage `json:"sdp"`
	}
	AnswerPayload struct {
		SDP json.RawMessage `json:"sdp"`
	}
	CandidatePayload struct {
		Candidate json.RawMessage `json:"candidate"`
	}
	VoiceJoinedPayload struct {
		UserID domain.UserID `json:"userId"`
	}
	VoiceSignalPayload struct {
		From   string          `json:"from"`
		Signal json.RawMessage `json:"signal"`
	}
	RoomFoundPayload struct {
		RoomID domain.RoomID `json:"roomId"`
	}
)

// Encode builds a wire frame for an event. Marshal failures are a
// programming error on our own payload types, so they are logged and
// yield a nil frame that TrySend implementations treat as empty.
func Encode(event string, data any) core.Frame {
	return EncodeAck(event, "", data)
}

func EncodeAck(event, ack string, data any) core.Frame {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			log.Error().Str("module", "app.events").Str("event", event).Err(err).Msg("payload marshal")
			return nil
		}
		raw = b
	}
	b, err := json.Marshal(Envelope{Event: event, Data: raw, Ack: ack})
	if err != nil {
		log.Error().Str("module", "app.events").Str("event", event).Err(err).Msg("envelope marshal")
		return nil
	}
	return b
}

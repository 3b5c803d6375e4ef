package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

// Orchestrator routes each inbound event through the shared tables and
// fans out the results. The tables are injected, lock-guarded state owned
// by the process; the orchestrator itself holds nothing mutable.
type Orchestrator struct {
	Registry *Registry
	Rooms    *Directory
	Hub      *Hub

	// RoomCapacity bounds the matchmaker only; joins are never refused.
	RoomCapacity int
}

// Connect makes the peer addressable. The adapter sends the greeting.
func (o *Orchestrator) Connect(cid core.ConnID, p core.Peer) {
	o.Hub.AddPeer(cid, p)
	log.Info().Str("module", "app.orchestrator").Str("conn", string(cid)).Msg("client connected")
}

// Disconnect clears the voice identity mapping and the broadcast groups.
// Room membership is intentionally left alone: only an explicit user-left
// removes a participant, which lets a client reconnect into its old seat.
func (o *Orchestrator) Disconnect(cid core.ConnID) {
	o.Registry.Unregister(cid)
	o.Hub.RemovePeer(cid)
	log.Info().Str("module", "app.orchestrator").Str("conn", string(cid)).Msg("client disconnected")
}

// JoinRoom subscribes the connection to the room and appends the
// participant, creating the room with the joiner's language on first use.
// Everyone in the room, joiner included, gets the authoritative snapshot.
func (o *Orchestrator) JoinRoom(cid core.ConnID, rid domain.RoomID, p domain.Participant, lang domain.Language) {
	o.Hub.JoinGroup(rid, cid)
	snapshot := o.Rooms.Join(rid, p, lang)
	log.Info().Str("module", "app.orchestrator").Str("room", string(rid)).Str("user", string(p.UserID)).Int("participants", len(snapshot)).Msg("join")
	o.Hub.BroadcastRoom(rid, Encode(EvtParticipantsUpdate, snapshot))
}

// SendMessage relays chat to everyone else in the room; the sender
// renders its own message locally.
func (o *Orchestrator) SendMessage(cid core.ConnID, rid domain.RoomID, message json.RawMessage) {
	o.Hub.BroadcastOthers(rid, cid, Encode(EvtReceiveMessage, message))
}

// AnnounceUser forwards the ephemeral new-user notification, independent
// of the authoritative participants-update snapshot.
func (o *Orchestrator) AnnounceUser(cid core.ConnID, rid domain.RoomID, user json.RawMessage) {
	o.Hub.BroadcastOthers(rid, cid, Encode(EvtNewUser, user))
}

// SetReady updates one participant's ready flag and broadcasts inclusively
// so every member converges on the same state. An unknown room or user
// mutates nothing but the broadcast still goes out, matching the join
// protocol's tolerance for stale clients.
func (o *Orchestrator) SetReady(rid domain.RoomID, uid domain.UserID, ready bool) {
	if !o.Rooms.SetReady(rid, uid, ready) {
		log.Debug().Str("module", "app.orchestrator").Str("room", string(rid)).Str("user", string(uid)).Msg("ready change for unknown participant, list untouched")
	}
	o.Hub.BroadcastRoom(rid, Encode(EvtUserReadyUpdate, UserReadyPayload{UserID: uid, IsReady: ready}))
}

// LeaveRoom removes the participant, tells the others who left, then
// broadcasts the new snapshot to everyone still subscribed. The room
// record is deleted synchronously when the list empties; the broadcast
// group survives until those connections drop.
func (o *Orchestrator) LeaveRoom(cid core.ConnID, rid domain.RoomID, uid domain.UserID, userName string) {
	snapshot, ok, deleted := o.Rooms.Leave(rid, uid)
	if !ok {
		return
	}
	o.Hub.BroadcastOthers(rid, cid, Encode(EvtUserLeft, UserLeftPayload{UserID: uid, UserName: userName}))
	o.Hub.BroadcastRoom(rid, Encode(EvtParticipantsUpdate, snapshot))
	if deleted {
		log.Info().Str("module", "app.orchestrator").Str("room", string(rid)).Msg("room torn down")
	}
}

// FindRoom answers the matchmaker query. Advisory only: no seat is
// reserved, a concurrent join may still overfill the room.
func (o *Orchestrator) FindRoom(lang domain.Language) (domain.RoomID, bool) {
	return o.Rooms.FindAvailable(lang, o.RoomCapacity)
}

// RelayOffer delivers a connection-offer to the target connection. The
// target is a connection identity the caller already resolved.
func (o *Orchestrator) RelayOffer(target core.ConnID, callerID string, sdp json.RawMessage) {
	if !o.Hub.SendTo(target, Encode(EvtOffer, OfferPayload{CallerID: callerID, SDP: sdp})) {
		log.Warn().Str("module", "app.orchestrator").Str("target", string(target)).Msg("offer target not connected, dropped")
	}
}

func (o *Orchestrator) RelayAnswer(target core.ConnID, sdp json.RawMessage) {
	if !o.Hub.SendTo(target, Encode(EvtAnswer, AnswerPayload{SDP: sdp})) {
		log.Warn().Str("module", "app.orchestrator").Str("target", string(target)).Msg("answer target not connected, dropped")
	}
}

func (o *Orchestrator) RelayCandidate(target core.ConnID, candidate json.RawMessage) {
	if !o.Hub.SendTo(target, Encode(EvtIceCandidate, CandidatePayload{Candidate: candidate})) {
		log.Warn().Str("module", "app.orchestrator").Str("target", string(target)).Msg("candidate target not connected, dropped")
	}
}

// VoiceJoin binds the caller's connection to the stable user identity so
// later voice-signals can reach it, subscribes the connection to the
// room's broadcasts, and announces the new voice peer to the others.
func (o *Orchestrator) VoiceJoin(cid core.ConnID, rid domain.RoomID, uid domain.UserID) {
	o.Registry.Register(uid, cid)
	o.Hub.JoinGroup(rid, cid)
	o.Hub.BroadcastOthers(rid, cid, Encode(EvtVoiceUserJoined, VoiceJoinedPayload{UserID: uid}))
}

// VoiceSignal resolves the target user's live connection and forwards the
// opaque signal. An unresolved target is logged and dropped, never
// surfaced to the sender.
func (o *Orchestrator) VoiceSignal(to domain.UserID, from string, signal json.RawMessage) {
	cid, ok := o.Registry.Resolve(to)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("to", string(to)).Msg("no connection for voice target, dropped")
		return
	}
	if !o.Hub.SendTo(cid, Encode(EvtVoiceSignal, VoiceSignalPayload{From: from, Signal: signal})) {
		log.Warn().Str("module", "app.orchestrator").Str("to", string(to)).Str("conn", string(cid)).Msg("voice target connection gone, dropped")
	}
}

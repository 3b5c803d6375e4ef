package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/app"
	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

type wireUser struct {
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name"`
}

func (ctl *Controller) handleJoinRoom(cid core.ConnID, data []byte) {
	var p struct {
		RoomID   domain.RoomID   `json:"roomId"`
		User     wireUser        `json:"user"`
		Language domain.Language `json:"language"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad join-room payload")
		return
	}
	participant, err := domain.NewParticipant(p.User.UserID, p.User.Name)
	if err != nil {
		log.Warn().Str("module", "signal").Str("room", string(p.RoomID)).Err(err).Msg("join-room rejected")
		return
	}
	ctl.Orch.JoinRoom(cid, p.RoomID, participant, p.Language)
}

func (ctl *Controller) handleSendMessage(cid core.ConnID, data []byte) {
	var p struct {
		RoomID  domain.RoomID   `json:"roomId"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad send-message payload")
		return
	}
	ctl.Orch.SendMessage(cid, p.RoomID, p.Message)
}

func (ctl *Controller) handleUserJoined(cid core.ConnID, data []byte) {
	var p struct {
		RoomID domain.RoomID   `json:"roomId"`
		User   json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad user-joined payload")
		return
	}
	ctl.Orch.AnnounceUser(cid, p.RoomID, p.User)
}

func (ctl *Controller) handleReadyState(data []byte) {
	var p struct {
		RoomID  domain.RoomID `json:"roomId"`
		UserID  domain.UserID `json:"userId"`
		IsReady bool          `json:"isReady"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad ready-state-changed payload")
		return
	}
	ctl.Orch.SetReady(p.RoomID, p.UserID, p.IsReady)
}

func (ctl *Controller) handleUserLeft(cid core.ConnID, data []byte) {
	var p struct {
		RoomID   domain.RoomID `json:"roomId"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad user-left payload")
		return
	}
	ctl.Orch.LeaveRoom(cid, p.RoomID, p.UserID, p.UserName)
}

// handleFindRoom answers on the same connection, correlated by the ack
// id the client sent. A miss replies with null data.
func (ctl *Controller) handleFindRoom(c *wsConn, ack string, data []byte) {
	var lang domain.Language
	if err := json.Unmarshal(data, &lang); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad find-available-room payload")
		return
	}
	if rid, ok := ctl.Orch.FindRoom(lang); ok {
		_ = c.TrySend(app.EncodeAck(app.EvtFindAvailableRoom, ack, app.RoomFoundPayload{RoomID: rid}))
		return
	}
	_ = c.TrySend(app.EncodeAck(app.EvtFindAvailableRoom, ack, nil))
}

package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

func (ctl *Controller) handleVoiceJoin(cid core.ConnID, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad voice-join payload")
		return
	}
	ctl.Orch.VoiceJoin(cid, p.RoomID, p.UserID)
}

func (ctl *Controller) handleVoiceSignal(data []byte) {
	var p struct {
		To     domain.UserID   `json:"to"`
		From   string          `json:"from"`
		Signal json.RawMessage `json:"signal"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad voice-signal payload")
		return
	}
	ctl.Orch.VoiceSignal(p.To, p.From, p.Signal)
}

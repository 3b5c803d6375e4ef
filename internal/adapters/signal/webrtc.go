package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
)

// The three negotiation relays. Targets are connection identities the
// caller already resolved; sdp and candidate bodies pass through opaque.

func (ctl *Controller) handleOffer(data []byte) {
	var p struct {
		Target   core.ConnID     `json:"target"`
		CallerID string          `json:"callerId"`
		SDP      json.RawMessage `json:"sdp"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad offer payload")
		return
	}
	ctl.Orch.RelayOffer(p.Target, p.CallerID, p.SDP)
}

func (ctl *Controller) handleAnswer(data []byte) {
	var p struct {
		Target core.ConnID     `json:"target"`
		SDP    json.RawMessage `json:"sdp"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad answer payload")
		return
	}
	ctl.Orch.RelayAnswer(p.Target, p.SDP)
}

func (ctl *Controller) handleCandidate(data []byte) {
	var p struct {
		Target    core.ConnID     `json:"target"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad ice-candidate payload")
		return
	}
	ctl.Orch.RelayCandidate(p.Target, p.Candidate)
}

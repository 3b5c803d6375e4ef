package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/app"
	"github.com/lingoroom/relay/internal/core"
)

// Time allowed to write one frame to the peer.
const writeWait = 10 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Str("module", "signal").Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Str("module", "signal").Err(err).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnID, c *wsConn) {
	// Peers must answer pings within the pong window or the read fails.
	pongWait := ctl.Cfg.PingPeriod * 10 / 9

	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Orch.Disconnect(cid)
	}()

	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Str("module", "signal").Str("conn", string(cid)).Err(err).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(cid, c, data)
		}
	}
}

func (ctl *Controller) dispatch(cid core.ConnID, c *wsConn, data []byte) {
	var env app.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("bad envelope")
		return
	}

	switch env.Event {
	case app.EvtJoinRoom:
		ctl.handleJoinRoom(cid, env.Data)
	case app.EvtSendMessage:
		ctl.handleSendMessage(cid, env.Data)
	case app.EvtUserJoined:
		ctl.handleUserJoined(cid, env.Data)
	case app.EvtReadyStateChanged:
		ctl.handleReadyState(env.Data)
	case app.EvtUserLeft:
		ctl.handleUserLeft(cid, env.Data)
	case app.EvtFindAvailableRoom:
		ctl.handleFindRoom(c, env.Ack, env.Data)
	case app.EvtOffer:
		ctl.handleOffer(env.Data)
	case app.EvtAnswer:
		ctl.handleAnswer(env.Data)
	case app.EvtIceCandidate:
		ctl.handleCandidate(env.Data)
	case app.EvtVoiceJoin:
		ctl.handleVoiceJoin(cid, env.Data)
	case app.EvtVoiceSignal:
		ctl.handleVoiceSignal(env.Data)
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}

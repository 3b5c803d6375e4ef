package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

// Hub tracks live peers and the transport-level broadcast groups.
// Group membership is deliberately independent of the Directory record:
// deleting an empty room record does not detach connections from the
// group, only disconnect does.
type Hub struct {
	mu     sync.RWMutex
	peers  map[core.ConnID]core.Peer
	groups map[domain.RoomID]map[core.ConnID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		peers:  make(map[core.ConnID]core.Peer),
		groups: make(map[domain.RoomID]map[core.ConnID]struct{}),
	}
}

func (h *Hub) AddPeer(cid core.ConnID, p core.Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[cid] = p
}

// RemovePeer drops the peer and detaches it from every group, deleting
// groups that end up empty.
func (h *Hub) RemovePeer(cid core.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, cid)
	for rid, members := range h.groups {
		delete(members, cid)
		if len(members) == 0 {
			delete(h.groups, rid)
		}
	}
}

// JoinGroup subscribes the connection to a room's broadcasts. Joining the
// same group twice is harmless.
func (h *Hub) JoinGroup(rid domain.RoomID, cid core.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[rid]
	if !ok {
		members = make(map[core.ConnID]struct{})
		h.groups[rid] = members
	}
	members[cid] = struct{}{}
}

// SendTo delivers to a single connection. Returns false when the
// connection is not live; the caller decides whether that is worth a log.
func (h *Hub) SendTo(cid core.ConnID, f core.Frame) bool {
	h.mu.RLock()
	p, ok := h.peers[cid]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := p.TrySend(f); err != nil {
		log.Debug().Str("module", "app.hub").Str("conn", string(cid)).Err(err).Msg("send dropped")
	}
	return true
}

// BroadcastRoom fans out to every connection in the group, sender included.
func (h *Hub) BroadcastRoom(rid domain.RoomID, f core.Frame) int {
	return h.broadcast(rid, "", f)
}

// BroadcastOthers fans out to every connection in the group except from.
func (h *Hub) BroadcastOthers(rid domain.RoomID, from core.ConnID, f core.Frame) int {
	return h.broadcast(rid, from, f)
}

func (h *Hub) broadcast(rid domain.RoomID, skip core.ConnID, f core.Frame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for cid := range h.groups[rid] {
		if cid == skip {
			continue
		}
		p, ok := h.peers[cid]
		if !ok {
			continue
		}
		if err := p.TrySend(f); err != nil {
			log.Debug().Str("module", "app.hub").Str("conn", string(cid)).Err(err).Msg("broadcast send dropped")
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

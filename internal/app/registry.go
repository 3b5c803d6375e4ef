package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/core"
	"github.com/lingoroom/relay/internal/domain"
)

// Registry maps a stable user identity to its current live connection.
// A later Register for the same user overwrites the prior mapping, which
// is what makes reconnects work.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.UserID]core.ConnID
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.UserID]core.ConnID)}
}

func (r *Registry) Register(uid domain.UserID, cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[uid] = cid
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(cid)).Msg("registered voice identity")
}

// Resolve looks up the live connection for a user. Absence is a normal
// outcome; callers log and drop rather than fail.
func (r *Registry) Resolve(uid domain.UserID) (core.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cid, ok := r.conns[uid]
	return cid, ok
}

// Unregister removes the first entry owned by the given connection.
// If a stale second mapping exists for the same user under an old
// connection id, only the matching one is removed.
func (r *Registry) Unregister(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for uid, c := range r.conns {
		if c == cid {
			delete(r.conns, uid)
			log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(cid)).Msg("unregistered voice identity")
			return
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

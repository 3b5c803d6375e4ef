package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lingoroom/relay/internal/domain"
)

type roomState struct {
	language     domain.Language
	participants []domain.Participant
}

func (r *roomState) indexOf(uid domain.UserID) int {
	for i, p := range r.participants {
		if p.UserID == uid {
			return i
		}
	}
	return -1
}

func (r *roomState) snapshot() []domain.Participant {
	out := make([]domain.Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// RoomInfo is a read-only view for APIs.
type RoomInfo struct {
	ID           domain.RoomID   `json:"roomId"`
	Language     domain.Language `json:"language"`
	Participants int             `json:"participantCount"`
}

// Directory is the authoritative room table. Rooms are created lazily on
// first join and deleted synchronously when the last participant leaves.
// The order slice keeps matchmaker scans in insertion order.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomState
	order []domain.RoomID
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomID]*roomState)}
}

// Join adds the participant to the room, creating the room with the given
// language if it does not exist yet. A duplicate userID leaves the list
// untouched (idempotent join). The returned snapshot is always non-nil so
// the caller can broadcast it either way. New participants start not ready.
func (d *Directory) Join(id domain.RoomID, p domain.Participant, lang domain.Language) []domain.Participant {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[id]
	if !ok {
		room = &roomState{language: lang}
		d.rooms[id] = room
		d.order = append(d.order, id)
		log.Info().Str("module", "app.directory").Str("room", string(id)).Str("language", string(lang)).Msg("room created")
	}
	if room.indexOf(p.UserID) < 0 {
		p.IsReady = false
		room.participants = append(room.participants, p)
	}
	return room.snapshot()
}

// Leave removes the participant from the room. An unknown room reports
// ok=false; an unknown userID is a silent no-op for the list. The room is
// deleted inside this same locked operation when its list becomes empty.
func (d *Directory) Leave(id domain.RoomID, uid domain.UserID) (participants []domain.Participant, ok, deleted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, found := d.rooms[id]
	if !found {
		return nil, false, false
	}
	if i := room.indexOf(uid); i >= 0 {
		room.participants = append(room.participants[:i], room.participants[i+1:]...)
	}
	if len(room.participants) == 0 {
		d.drop(id)
		log.Info().Str("module", "app.directory").Str("room", string(id)).Msg("room deleted, no participants left")
		return []domain.Participant{}, true, true
	}
	return room.snapshot(), true, false
}

// SetReady flips the ready flag of the matching participant. Unknown room
// or userID is a no-op; it never creates a phantom participant.
func (d *Directory) SetReady(id domain.RoomID, uid domain.UserID, ready bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[id]
	if !ok {
		return false
	}
	i := room.indexOf(uid)
	if i < 0 {
		return false
	}
	room.participants[i].IsReady = ready
	return true
}

// FindAvailable scans rooms in insertion order and returns the first one
// matching the language with seats remaining. Point-in-time snapshot, no
// reservation: the caller may race a concurrent Join and overfill the room;
// capacity is advisory.
func (d *Directory) FindAvailable(lang domain.Language, capacity int) (domain.RoomID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range d.order {
		room := d.rooms[id]
		if room.language == lang && len(room.participants) < capacity {
			return id, true
		}
	}
	return "", false
}

func (d *Directory) Snapshot(id domain.RoomID) ([]domain.Participant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[id]
	if !ok {
		return nil, false
	}
	return room.snapshot(), true
}

func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.order))
	for _, id := range d.order {
		room := d.rooms[id]
		out = append(out, RoomInfo{ID: id, Language: room.language, Participants: len(room.participants)})
	}
	return out
}

// drop must be called with the write lock held.
func (d *Directory) drop(id domain.RoomID) {
	delete(d.rooms, id)
	for i, rid := range d.order {
		if rid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

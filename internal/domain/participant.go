// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxUserIDLen = 36
	MaxNameLen   = 36
)

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
	ErrNameTooLong   = errors.New("display name too long")
)

type UserID string

// Participant is a user's membership record within one room.
// The ready flag starts false and is flipped only by ready-state events.
type Participant struct {
	UserID  UserID `json:"userId"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(id UserID, name string) (Participant, error) {
	if len(id) == 0 {
		return Participant{}, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return Participant{}, ErrUserIDTooLong
	}
	if len(name) > MaxNameLen {
		return Participant{}, ErrNameTooLong
	}
	return Participant{UserID: id, Name: name}, nil
}

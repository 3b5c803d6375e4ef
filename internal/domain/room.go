package domain

type (
	RoomID   string
	Language string
)

package game

import "errors"

var (
	ErrRoomFull       = errors.New("room is full")
	ErrEmptyName      = errors.New("username must not be empty")
	ErrAlreadyHost    = errors.New("caller is the host of this room")
	ErrNotHost        = errors.New("caller is not the host of this room")
	ErrWrongPhase     = errors.New("intent is not valid in the current phase")
	ErrAlreadyClicked = errors.New("player already clicked this round")
)

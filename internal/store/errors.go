package store

import "errors"

var (
	ErrSlotTaken = errors.New("slot already taken")
	ErrNotFound  = errors.New("not found")
)

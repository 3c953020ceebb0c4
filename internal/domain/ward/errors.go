package ward

import "errors"

var (
	ErrWardNotFound = errors.New("ward not found")
	ErrBedNotFound  = errors.New("bed not found in this ward")
	ErrNoValidBeds  = errors.New("bed specification yields no valid beds")
)

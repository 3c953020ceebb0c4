package reference

import "errors"

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrVisitNotFound        = errors.New("visit not found")
	ErrRoomCategoryNotFound = errors.New("room category not found")
)

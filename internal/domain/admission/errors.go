package admission

import "errors"

var (
	ErrAdmissionNotFound = errors.New("admission not found")
	ErrAlreadyAdmitted   = errors.New("patient is already admitted and cannot be admitted again")
	ErrBedNotAvailable   = errors.New("bed is not available")
	ErrAlreadyDischarged = errors.New("admission is already discharged")
)

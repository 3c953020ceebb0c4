package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this MRN already exists")
)

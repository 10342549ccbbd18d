package services

import "errors"

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrRequestNotFound        = errors.New("training request not found")
	ErrTrainerNotFound        = errors.New("trainer not found")
	ErrMatchingFailure        = errors.New("failed to find matching trainers")
	ErrDeliveryFailed         = errors.New("notification delivery failed")
)

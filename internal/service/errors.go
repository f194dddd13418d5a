package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoLocation        = errors.New("no start location available")
	ErrRequestsNotFound  = errors.New("no matching service requests")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

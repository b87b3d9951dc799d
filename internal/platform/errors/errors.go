package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveMeasurement = errors.New("no active measurement")
	ErrMeasurementActive   = errors.New("measurement already running")
	ErrCaptureUnavailable  = errors.New("capture backend unavailable")
	ErrStreamClosed        = errors.New("capture stream closed")
)

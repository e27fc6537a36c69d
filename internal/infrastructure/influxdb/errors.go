package influxdb

import "errors"

var (
	// ErrDisabled indicates the mirror is turned off in configuration.
	ErrDisabled = errors.New("influxdb mirror is disabled")

	// ErrConnectionFailed indicates the server could not be reached at startup.
	ErrConnectionFailed = errors.New("influxdb connection failed")
)

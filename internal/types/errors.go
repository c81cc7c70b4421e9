package types

import "errors"

// Error kinds. Producers wrap these with fmt.Errorf("%w: ...") so callers can
// classify a failure with errors.Is.
var (
	ErrConfig     = errors.New("config error")
	ErrConnection = errors.New("connection error")
	ErrQuery      = errors.New("query error")
	ErrResolution = errors.New("resolution error")
	ErrPush       = errors.New("push error")
)

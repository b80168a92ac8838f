package shader

import "errors"

var (
	// ErrUnfilledSlot is returned when a template slot has no code at build time.
	ErrUnfilledSlot = errors.New("shader: template slot not filled")

	// ErrUnknownSlot is returned when code is supplied for a slot the template does not declare.
	ErrUnknownSlot = errors.New("shader: unknown template slot")

	// ErrUnknownInclude is returned when an include or type key has no registered snippet.
	ErrUnknownInclude = errors.New("shader: unknown include key")
)

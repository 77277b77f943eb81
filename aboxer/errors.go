package aboxer

import "errors"

// Sentinel errors for conversion.
var (
	// ErrUnknownIDScheme is returned for an unsupported anonymous ID scheme.
	ErrUnknownIDScheme = errors.New("unknown anonymous id scheme")

	// ErrNilSink is returned when a conversion is started without a sink.
	ErrNilSink = errors.New("nil sink")
)

package wms

import "errors"

// Capability parsing failures fall into four classes. Callers use
// errors.Is to distinguish them; the validator only cares that parsing
// failed and forwards the message.
var (
	// ErrParse marks a response body that is not well-formed XML.
	ErrParse = errors.New("could not parse XML")

	// ErrService marks an explicit service-side exception report.
	ErrService = errors.New("WMS service exception")

	// ErrProtocol marks a document whose root element is not a known
	// capabilities element.
	ErrProtocol = errors.New("no capabilities element present")

	// ErrVersion marks a capabilities document without a version
	// attribute, which makes negotiation impossible.
	ErrVersion = errors.New("WMS version cannot be identified")
)

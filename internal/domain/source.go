package domain

import "github.com/paulmach/orb"

// ServiceType identifies the protocol a source record declares.
//
// The set of checked types is closed; anything else is carried through
// verbatim so the dispatcher can report it as unchecked.
type ServiceType string

const (
	ServiceTMS         ServiceType = "tms"
	ServiceWMS         ServiceType = "wms"
	ServiceWMSEndpoint ServiceType = "wms_endpoint"
	ServiceWMTS        ServiceType = "wmts"
)

// Zoom defaults applied when a record does not declare its own bounds.
const (
	DefaultMinZoom = 0
	DefaultMaxZoom = 22
)

// Source is the canonical in-memory form of one imagery source record.
//
// It is not tied to GeoJSON or any file layout. Loaders merge the wire
// representation into this structure and apply defaults.
type Source struct {
	// Path is the file the record was read from. Empty for records
	// submitted over the HTTP API.
	Path string

	// Name is the human-readable source name.
	Name string

	// Type selects the validator that will check this record.
	Type ServiceType

	// URL is the service URL template, possibly containing placeholder
	// tokens such as {zoom}, {x}, {y}, {switch:a,b,c} or {proj}.
	URL string

	MinZoom int
	MaxZoom int

	// Projections lists the CRS identifiers the record claims the
	// service supports. nil means the record did not declare any,
	// which the WMS validator treats as an error.
	Projections []string

	// Geometry is the coverage polygon, or nil for global sources.
	Geometry orb.Geometry

	// GeometrySet records whether the geometry key was present at all,
	// so an explicit null can be told apart from a missing key.
	GeometrySet bool

	LicenseURL       string
	PrivacyPolicyURL string
	Icon             string
	CountryCode      string
}

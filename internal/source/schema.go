package source

import (
	goskema "github.com/reoring/goskema"
	d "github.com/reoring/goskema/dsl"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// featureDoc is the wire shape of one source record file: a GeoJSON
// Feature whose properties describe the imagery service.
type featureDoc struct {
	Type       string         `json:"type"`
	Properties propertiesDoc  `json:"properties"`
	Geometry   map[string]any `json:"geometry"`
}

type propertiesDoc struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	URL              string   `json:"url"`
	MinZoom          int      `json:"min_zoom"`
	MaxZoom          int      `json:"max_zoom"`
	Projections      []string `json:"available_projections"`
	LicenseURL       string   `json:"license_url"`
	PrivacyPolicyURL string   `json:"privacy_policy_url"`
	Icon             string   `json:"icon"`
	CountryCode      string   `json:"country_code"`
}

// propertiesSchema validates the structure of the properties object.
// Unknown keys (attribution, description, ...) are stripped; they are
// not the checker's business.
var propertiesSchema = d.ObjectOf[propertiesDoc]().
	Field("name", d.StringOf[string]()).Required().
	Field("type", d.StringOf[string]()).Required().
	Field("url", d.StringOf[string]()).Required().
	Field("min_zoom", d.IntOf[int]()).Default(domain.DefaultMinZoom).
	Field("max_zoom", d.IntOf[int]()).Default(domain.DefaultMaxZoom).
	Field("available_projections", d.ArrayOf[string](d.String())).Optional().
	Field("license_url", d.StringOf[string]()).Optional().
	Field("privacy_policy_url", d.StringOf[string]()).Optional().
	Field("icon", d.StringOf[string]()).Optional().
	Field("country_code", d.StringOf[string]()).Optional().
	UnknownStrip().
	MustBind()

// featureSchema validates the record envelope. The geometry is kept
// loose here; it is decoded for real by the geometry parser.
var featureSchema = d.ObjectOf[featureDoc]().
	Field("type", d.StringOf[string]()).Required().
	Field("properties", d.SchemaOf[propertiesDoc](propertiesSchema)).Required().
	Field("geometry", d.SchemaOf[map[string]any](d.MapAny()).Nullable()).Optional().
	UnknownStrip().
	MustBind()

// strictParse rejects duplicate JSON keys, which would otherwise hide
// one of the two conflicting values.
var strictParse = goskema.ParseOpt{
	Strictness: goskema.Strictness{OnDuplicateKey: goskema.Error},
}

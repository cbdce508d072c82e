package source

import (
	"github.com/paulmach/orb"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// mapSource converts the wire representation into the canonical
// domain.Source. Zoom defaults are applied by the schema; everything
// else carries over verbatim.
func mapSource(name string, props propertiesDoc, geom orb.Geometry, geomSet bool) *domain.Source {
	return &domain.Source{
		Path:             name,
		Name:             props.Name,
		Type:             domain.ServiceType(props.Type),
		URL:              props.URL,
		MinZoom:          props.MinZoom,
		MaxZoom:          props.MaxZoom,
		Projections:      props.Projections,
		Geometry:         geom,
		GeometrySet:      geomSet,
		LicenseURL:       props.LicenseURL,
		PrivacyPolicyURL: props.PrivacyPolicyURL,
		Icon:             props.Icon,
		CountryCode:      props.CountryCode,
	}
}

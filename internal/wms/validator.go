package wms

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// negotiationOrder is fixed by the WMS specification's negotiation
// rules: ask without a version first (the server answers with its
// highest), then walk down explicit versions until one parses.
var negotiationOrder = []string{"", "1.3.0", "1.1.1", "1.1.0", "1.0.0"}

// mandatoryParams are the GetMap parameters required by Table 8,
// Section 7.3.2 of the WMS 1.3.0 specification.
var mandatoryParams = []string{"version", "request", "layers", "bbox", "width", "height", "format"}

// Fetcher retrieves capability documents.
type Fetcher interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// Validator cross-checks a WMS GetMap URL against the capabilities the
// server actually advertises.
type Validator struct {
	client Fetcher
}

// NewValidator builds a validator on top of the given fetcher.
func NewValidator(client Fetcher) *Validator {
	return &Validator{client: client}
}

// Check validates a wms source record. Findings are appended to rep;
// nothing is returned and no finding aborts processing of the record
// beyond the documented early exits.
func (v *Validator) Check(ctx context.Context, src *domain.Source, rep *domain.Report) {
	rawURL := src.URL

	stripped := strings.NewReplacer("{", "", "}", "").Replace(rawURL)
	if !isValidURL(stripped) {
		rep.Errorf("URL validation error: %s", rawURL)
	}

	var missingTokens []string
	for _, token := range []string{"{proj}", "{bbox}", "{width}", "{height}"} {
		if !strings.Contains(rawURL, token) {
			missingTokens = append(missingTokens, token)
		}
	}
	if len(missingTokens) > 0 {
		rep.Errorf("The following values are missing in the URL: %s", strings.Join(missingTokens, ","))
	}

	base, args := parseQueryArgs(rawURL)

	missing := missingMandatoryParams(args)
	if len(missing) > 0 {
		rep.Errorf("Parameter '%s' is missing in url.", strings.Join(missing, ","))
		return
	}

	// Styles is mandatory per the WMS specification, but many servers
	// do not care, so its absence is only a warning.
	if _, ok := args["styles"]; !ok {
		rep.Warnf("Parameter 'styles' is missing in url. 'STYLES=' can be used to request default style.")
	}

	caps, attempts := v.negotiate(ctx, base, args)
	if caps == nil {
		for _, msg := range attempts {
			rep.Errorf("%s", msg)
		}
		return
	}

	requested := strings.Split(args["layers"], ",")

	var notFound []string
	for _, name := range requested {
		if _, ok := caps.Layers[name]; !ok {
			notFound = append(notFound, name)
		}
	}
	if len(notFound) > 0 {
		rep.Errorf("Layers '%s' not advertised by WMS GetCapabilities request.", strings.Join(notFound, ","))
	}

	if style, ok := args["styles"]; ok {
		checkStyles(caps, requested, style, rep)
	}

	checkCRS(caps, src, requested, rep)

	// Heuristic string compare, not a semantic version compare. The
	// version strings in the wild are all dotted triples so this works
	// out in practice.
	if args["version"] < caps.Version {
		rep.Warnf("Query requests WMS version '%s', server supports '%s'", args["version"], caps.Version)
	}

	checkFormat(caps, args["format"], rep)
}

// CheckEndpoint confirms a bare endpoint answers with a parseable
// capabilities document. No cross-checks beyond that.
func (v *Validator) CheckEndpoint(ctx context.Context, src *domain.Source, rep *domain.Report) {
	_, body, err := v.client.Get(ctx, src.URL)
	if err != nil {
		rep.Errorf("Exception: %v", err)
		return
	}
	if _, err := ParseCapabilities(body); err != nil {
		rep.Errorf("Exception: %v", err)
	}
}

// negotiate walks the version negotiation order and returns the first
// capabilities document that parses, together with the error text of
// every attempt made so far. caps is nil when all attempts failed.
func (v *Validator) negotiate(ctx context.Context, base *url.URL, args map[string]string) (*Capabilities, []string) {
	var attempts []string
	for _, version := range negotiationOrder {
		label := version
		if label == "" {
			label = "-"
		}

		capsURL := capabilitiesURL(base, args, version)
		_, body, err := v.client.Get(ctx, capsURL)
		if err == nil {
			var caps *Capabilities
			caps, err = ParseCapabilities(body)
			if err == nil {
				return caps, attempts
			}
		}
		attempts = append(attempts, fmt.Sprintf("WMS %s: Error: %v", label, err))
	}
	return nil, attempts
}

// capabilitiesURL rebuilds the source URL with its query string
// replaced by a GetCapabilities request. Some servers only answer when
// the original map parameter is carried over.
func capabilitiesURL(base *url.URL, args map[string]string, version string) string {
	u := *base
	q := url.Values{}
	q.Set("service", "WMS")
	q.Set("request", "GetCapabilities")
	if version != "" {
		q.Set("version", version)
	}
	if mapArg, ok := args["map"]; ok {
		q.Set("map", mapArg)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// missingMandatoryParams returns the GetMap parameters absent from
// args, in a stable order. crs is required for 1.3.0, srs for every
// older version.
func missingMandatoryParams(args map[string]string) []string {
	var missing []string
	for _, param := range mandatoryParams {
		if _, ok := args[param]; !ok {
			missing = append(missing, param)
		}
	}
	if version, ok := args["version"]; ok {
		if version == "1.3.0" {
			if _, ok := args["crs"]; !ok {
				missing = append(missing, "crs")
			}
		} else {
			if _, ok := args["srs"]; !ok {
				missing = append(missing, "srs")
			}
		}
	}
	return missing
}

// checkStyles pairs comma-separated style tokens with the requested
// layers positionally. Empty styles, the literal "default" and the
// all-commas server-side default convention are exempt.
func checkStyles(caps *Capabilities, requested []string, style string, rep *domain.Report) {
	if style == "default" || style == "" || style == strings.Repeat(",", len(requested)) {
		return
	}
	styles := strings.Split(style, ",")
	if len(styles) != len(requested) {
		rep.Errorf("Not the same number of styles and layers.")
		return
	}
	for i, layerName := range requested {
		layer, ok := caps.Layers[layerName]
		if !ok || styles[i] == "" {
			continue
		}
		if _, ok := layer.Styles[styles[i]]; !ok {
			rep.Errorf("Layer '%s' does not support style '%s'", layerName, styles[i])
		}
	}
}

// checkCRS verifies every declared projection against each requested
// layer's advertised CRS set. The full advertised set is reported so
// the operator can see what would be valid.
func checkCRS(caps *Capabilities, src *domain.Source, requested []string, rep *domain.Report) {
	if src.Projections == nil {
		rep.Errorf("source is missing 'available_projections' element.")
		return
	}
	for _, layerName := range requested {
		layer, ok := caps.Layers[layerName]
		if !ok {
			continue
		}
		var unsupported []string
		for _, crs := range src.Projections {
			if !layer.HasCRS(crs) {
				unsupported = append(unsupported, crs)
			}
		}
		if len(unsupported) > 0 {
			rep.Errorf("CRS '%s' not in: %s",
				strings.Join(unsupported, ","),
				strings.Join(layer.CRSList(), ","))
		}
	}
}

// checkFormat verifies the requested format is advertised, and nudges
// towards JPEG when the server offers it; JPEG is typically smaller
// for photographic imagery.
func checkFormat(caps *Capabilities, format string, rep *domain.Report) {
	advertised := strings.Join(caps.Formats, "', '")
	found := false
	for _, f := range caps.Formats {
		if f == format {
			found = true
			break
		}
	}
	if !found {
		rep.Errorf("Format '%s' not in '%s'.", format, advertised)
	}
	if !strings.Contains(format, "jpeg") && strings.Contains(advertised, "jpeg") {
		rep.Warnf("Server supports jpeg, but '%s' is used. (Server supports: '%s')", format, advertised)
	}
}

// parseQueryArgs splits the URL into its base and a case-insensitive
// query parameter map (last value wins on repeats).
func parseQueryArgs(rawURL string) (*url.URL, map[string]string) {
	args := make(map[string]string)
	u, err := url.Parse(rawURL)
	if err != nil {
		return &url.URL{}, args
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return u, args
	}
	for key, vals := range values {
		if len(vals) > 0 {
			args[strings.ToLower(key)] = vals[len(vals)-1]
		}
	}
	return u, args
}

// isValidURL applies a syntactic sanity check: absolute http(s) URL
// with a host.
func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

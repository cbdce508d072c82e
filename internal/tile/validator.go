package tile

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// DefaultSpan is how far the probe widens past an unreachable declared
// zoom bound; real-world servers often under-report their true range.
const DefaultSpan = 4

// FallbackPoint is probed when a record declares no geometry, i.e.
// global coverage with no anchor point.
var FallbackPoint = orb.Point{6.1, 49.6}

// Prober answers whether a concrete tile URL is reachable.
type Prober interface {
	Reachable(ctx context.Context, url string) bool
}

// Validator probes a live tile server for reachable zoom levels.
type Validator struct {
	client   Prober
	fallback orb.Point
	span     int
}

// NewValidator builds a tile validator. fallback is probed for records
// without geometry; span bounds the widening search past an
// unreachable declared zoom.
func NewValidator(client Prober, fallback orb.Point, span int) *Validator {
	if span <= 0 {
		span = DefaultSpan
	}
	return &Validator{client: client, fallback: fallback, span: span}
}

// Check probes the source's tile endpoint at its declared zoom bounds,
// widening inward when a bound is unreachable, and classifies the
// outcome into the report.
func (v *Validator) Check(ctx context.Context, src *domain.Source, rep *domain.Report) {
	tmpl := src.URL

	// Legacy token; records must use {zoom}.
	if strings.Contains(tmpl, "{z}") {
		rep.Errorf("{z} found instead of {zoom} in tile url")
		return
	}
	if strings.Contains(tmpl, "{apikey}") {
		rep.Warnf("Not possible to check URL, apikey is required.")
		return
	}
	tmpl, _ = splitSwitch(tmpl)

	point := v.fallback
	if src.Geometry != nil {
		point = representativePoint(src.Geometry)
	}

	minZoom, maxZoom := src.MinZoom, src.MaxZoom

	tested := make(map[int]bool)
	var reachable, unreachable []int
	probe := func(zoom int) bool {
		tested[zoom] = true
		t := maptile.At(point, maptile.Zoom(zoom))
		if v.client.Reachable(ctx, expand(tmpl, zoom, t)) {
			reachable = append(reachable, zoom)
			return true
		}
		unreachable = append(unreachable, zoom)
		return false
	}

	// Probe the declared minimum; on failure widen upward, stopping at
	// the first reachable zoom.
	if !probe(minZoom) {
		upper := minZoom + v.span
		if maxZoom < upper {
			upper = maxZoom
		}
		for zoom := minZoom + 1; zoom < upper; zoom++ {
			if tested[zoom] {
				continue
			}
			if probe(zoom) {
				break
			}
		}
	}

	// Same for the declared maximum, widening downward. Zooms already
	// probed above are skipped.
	if !tested[maxZoom] && !probe(maxZoom) {
		lower := maxZoom - v.span
		if minZoom > lower {
			lower = minZoom
		}
		for zoom := maxZoom - 1; zoom > lower; zoom-- {
			if tested[zoom] {
				continue
			}
			if probe(zoom) {
				break
			}
		}
	}

	testedStr := joinZooms(keys(tested))
	switch {
	case len(unreachable) == 0 && len(reachable) > 0:
		rep.Goodf("Zoom levels reachable. (Tested: %s)", testedStr)
	case len(unreachable) > 0 && len(reachable) > 0:
		rep.Errorf("Zoom level %s not reachable. (Tested: %s)", joinZooms(unreachable), testedStr)
	default:
		rep.Errorf("No zoom level reachable. (Tested: %s)", testedStr)
	}
}

// representativePoint returns an interior-ish anchor for the coverage
// geometry. The area-weighted centroid is a good enough stand-in for
// the imagery coverage polygons in scope.
func representativePoint(g orb.Geometry) orb.Point {
	point, _ := planar.CentroidArea(g)
	return point
}

func keys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for z := range set {
		out = append(out, z)
	}
	return out
}

func joinZooms(zooms []int) string {
	sorted := append([]int(nil), zooms...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, z := range sorted {
		parts[i] = strconv.Itoa(z)
	}
	return strings.Join(parts, ",")
}

package tile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

var switchToken = regexp.MustCompile(`\{switch:?([^}]*)\}`)

// splitSwitch extracts the alternatives of a {switch:a,b,c} token and
// rewrites the token to the first one. One alternative is probed as
// representative; the others are assumed equivalent.
func splitSwitch(tmpl string) (string, []string) {
	m := switchToken.FindStringSubmatch(tmpl)
	if m == nil {
		return tmpl, nil
	}
	alternatives := strings.Split(m[1], ",")
	return strings.Replace(tmpl, m[0], alternatives[0], 1), alternatives
}

// expand substitutes {zoom}, {x} and the vertical coordinate into the
// template for one concrete tile.
//
// Three incompatible y-axis conventions exist in the wild:
//
//	{y}  uses the slippy row directly
//	{-y} is the TMS convention, row counted from the bottom: 2^zoom - 1 - row
//	{!y} is a third, non-standard convention: 2^(zoom-1) - 1 - row
//
// Existing records depend on the exact {-y}/{!y} formulas, power-of-two
// asymmetry included.
func expand(tmpl string, zoom int, t maptile.Tile) string {
	switch {
	case strings.Contains(tmpl, "{-y}"):
		y := (1 << uint(zoom)) - 1 - int(t.Y)
		tmpl = strings.ReplaceAll(tmpl, "{-y}", strconv.Itoa(y))
	case strings.Contains(tmpl, "{!y}"):
		y := halfPow(zoom) - 1 - int(t.Y)
		tmpl = strings.ReplaceAll(tmpl, "{!y}", strconv.Itoa(y))
	default:
		tmpl = strings.ReplaceAll(tmpl, "{y}", strconv.FormatUint(uint64(t.Y), 10))
	}
	tmpl = strings.ReplaceAll(tmpl, "{x}", strconv.FormatUint(uint64(t.X), 10))
	tmpl = strings.ReplaceAll(tmpl, "{zoom}", strconv.Itoa(zoom))
	return tmpl
}

// halfPow returns 2^(zoom-1), clamped to 0 at zoom 0 where the {!y}
// convention is not meaningful.
func halfPow(zoom int) int {
	if zoom < 1 {
		return 0
	}
	return 1 << uint(zoom-1)
}

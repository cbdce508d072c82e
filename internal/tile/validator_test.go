package tile

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// zoomProber answers reachability by the zoom segment of the probed URL
// and counts every call.
type zoomProber struct {
	reachable map[int]bool
	calls     int
}

func (p *zoomProber) Reachable(_ context.Context, url string) bool {
	p.calls++
	// https://tiles.example.com/<zoom>/<x>/<y>.png
	parts := strings.Split(url, "/")
	zoom, err := strconv.Atoi(parts[3])
	if err != nil {
		return false
	}
	return p.reachable[zoom]
}

func tileSource(url string, minZoom, maxZoom int) *domain.Source {
	return &domain.Source{
		Name:    "test",
		Type:    domain.ServiceTMS,
		URL:     url,
		MinZoom: minZoom,
		MaxZoom: maxZoom,
	}
}

const tmplURL = "https://tiles.example.com/{zoom}/{x}/{y}.png"

func TestCheckAllReachable(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{5: true, 10: true}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource(tmplURL, 5, 10), rep)

	if rep.Invalid() {
		t.Fatalf("unexpected errors: %v", rep.Errors)
	}
	want := "Zoom levels reachable. (Tested: 5,10)"
	if len(rep.Good) != 1 || rep.Good[0] != want {
		t.Errorf("Good = %v, want [%q]", rep.Good, want)
	}
	if prober.calls != 2 {
		t.Errorf("calls = %d, want 2 (only the declared bounds)", prober.calls)
	}
}

func TestCheckWidensPastUnreachableMinimum(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{7: true, 10: true}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource(tmplURL, 5, 10), rep)

	want := "Zoom level 5,6 not reachable. (Tested: 5,6,7,10)"
	if len(rep.Errors) != 1 || rep.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", rep.Errors, want)
	}
}

func TestCheckNothingReachable(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource(tmplURL, 5, 10), rep)

	want := "No zoom level reachable. (Tested: 5,6,7,8,9,10)"
	if len(rep.Errors) != 1 || rep.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", rep.Errors, want)
	}
}

func TestCheckSingleZoomProbedOnce(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{3: true}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource(tmplURL, 3, 3), rep)

	if prober.calls != 1 {
		t.Errorf("calls = %d, want 1 when min and max coincide", prober.calls)
	}
	want := "Zoom levels reachable. (Tested: 3)"
	if len(rep.Good) != 1 || rep.Good[0] != want {
		t.Errorf("Good = %v, want [%q]", rep.Good, want)
	}
}

func TestCheckLegacyZToken(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource("https://tiles.example.com/{z}/{x}/{y}.png", 0, 22), rep)

	want := "{z} found instead of {zoom} in tile url"
	if len(rep.Errors) != 1 || rep.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", rep.Errors, want)
	}
	if prober.calls != 0 {
		t.Errorf("calls = %d, want 0 (no network for unexpandable template)", prober.calls)
	}
}

func TestCheckAPIKeyToken(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(), tileSource("https://tiles.example.com/{zoom}/{x}/{y}.png?key={apikey}", 0, 22), rep)

	want := "Not possible to check URL, apikey is required."
	if len(rep.Warnings) != 1 || rep.Warnings[0] != want {
		t.Errorf("Warnings = %v, want [%q]", rep.Warnings, want)
	}
	if rep.Invalid() {
		t.Errorf("Errors = %v, want none", rep.Errors)
	}
	if prober.calls != 0 {
		t.Errorf("calls = %d, want 0", prober.calls)
	}
}

func TestCheckSwitchToken(t *testing.T) {
	prober := &zoomProber{reachable: map[int]bool{2: true, 4: true}}
	v := NewValidator(prober, FallbackPoint, DefaultSpan)
	rep := domain.NewReport("test")

	v.Check(context.Background(),
		tileSource("https://{switch:tiles,tiles2}.example.com/{zoom}/{x}/{y}.png", 2, 4), rep)

	if rep.Invalid() {
		t.Fatalf("unexpected errors: %v", rep.Errors)
	}
	if prober.calls != 2 {
		t.Errorf("calls = %d, want 2 (only the first alternative probed)", prober.calls)
	}
}

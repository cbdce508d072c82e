package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MrSnakeDoc/layerlint/internal/checker"
	"github.com/MrSnakeDoc/layerlint/internal/config"
)

type captureLogger struct {
	infos, warns, errors []string
}

func (l *captureLogger) Debug(string, ...zap.Field) {}
func (l *captureLogger) Info(string, ...zap.Field)  {}
func (l *captureLogger) Warn(string, ...zap.Field)  {}
func (l *captureLogger) Error(string, ...zap.Field) {}

func (l *captureLogger) Debugf(string, ...interface{}) {}
func (l *captureLogger) Infof(t string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(t, args...))
}
func (l *captureLogger) Warnf(t string, args ...interface{}) {
	l.warns = append(l.warns, fmt.Sprintf(t, args...))
}
func (l *captureLogger) Errorf(t string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(t, args...))
}
func (l *captureLogger) Sync() error { return nil }

const wmsCapabilities = `<WMT_MS_Capabilities version="1.1.1">
  <Capability>
    <Request><GetMap><Format>image/jpeg</Format></GetMap></Request>
    <Layer><Name>ortho</Name><SRS>EPSG:3857</SRS></Layer>
  </Capability>
</WMT_MS_Capabilities>`

// newTestService serves everything the checker touches: tile images,
// a WMS capabilities endpoint and license/privacy pages.
func newTestService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/tiles/"):
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/wms":
			w.Header().Set("Content-Type", "text/xml")
			_, _ = w.Write([]byte(wmsCapabilities))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeRecord(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newRunner(log *captureLogger) *checker.Runner {
	return checker.New(&config.Config{
		UserAgent:   "layerlint-test/1.0",
		HTTPTimeout: 5 * time.Second,
		FallbackLon: 6.1,
		FallbackLat: 49.6,
		ZoomSpan:    4,
	}, log)
}

func TestRunTMSRecord(t *testing.T) {
	srv := newTestService(t)
	dir := t.TempDir()

	record := fmt.Sprintf(`{
  "type": "Feature",
  "properties": {
    "name": "Luxembourg Orthophoto",
    "type": "tms",
    "url": %q,
    "min_zoom": 1,
    "max_zoom": 3,
    "license_url": %q,
    "privacy_policy_url": %q,
    "country_code": "LU"
  },
  "geometry": {
    "type": "Polygon",
    "coordinates": [[[5.7, 49.4], [6.5, 49.4], [6.5, 50.2], [5.7, 50.2], [5.7, 49.4]]]
  }
}`, srv.URL+"/tiles/{zoom}/{x}/{y}.png", srv.URL+"/license", srv.URL+"/privacy")

	path := writeRecord(t, dir, "lu.geojson", record)

	log := &captureLogger{}
	res := newRunner(log).Run(context.Background(), []string{path})

	if res.Processed != 1 {
		t.Errorf("Processed = %d, want 1", res.Processed)
	}
	if res.Broken {
		t.Fatalf("Broken = true; errors: %v", log.errors)
	}
	want := "Zoom levels reachable. (Tested: 1,3)"
	found := false
	for _, msg := range log.infos {
		if msg == want {
			found = true
		}
	}
	if !found {
		t.Errorf("infos = %v, want %q", log.infos, want)
	}
}

func TestRunWMSEndpointRecord(t *testing.T) {
	srv := newTestService(t)
	dir := t.TempDir()

	record := fmt.Sprintf(`{
  "type": "Feature",
  "properties": {
    "name": "World WMS",
    "type": "wms_endpoint",
    "url": %q,
    "license_url": %q,
    "privacy_policy_url": %q
  },
  "geometry": null
}`, srv.URL+"/wms", srv.URL+"/license", srv.URL+"/privacy")

	path := writeRecord(t, dir, "world.geojson", record)

	log := &captureLogger{}
	res := newRunner(log).Run(context.Background(), []string{path})

	if res.Broken {
		t.Fatalf("Broken = true; errors: %v", log.errors)
	}
	if res.Processed != 1 {
		t.Errorf("Processed = %d, want 1", res.Processed)
	}
}

func TestRunMixedBatch(t *testing.T) {
	srv := newTestService(t)
	dir := t.TempDir()

	good := fmt.Sprintf(`{
  "type": "Feature",
  "properties": {
    "name": "World WMS",
    "type": "wms_endpoint",
    "url": %q,
    "license_url": %q,
    "privacy_policy_url": %q
  },
  "geometry": null
}`, srv.URL+"/wms", srv.URL+"/license", srv.URL+"/privacy")

	goodPath := writeRecord(t, dir, "world.geojson", good)
	badPath := writeRecord(t, dir, "broken.geojson", "not json at all")

	log := &captureLogger{}
	res := newRunner(log).Run(context.Background(), []string{goodPath, badPath})

	if res.Processed != 2 {
		t.Errorf("Processed = %d, want 2 (one failure must not stop the run)", res.Processed)
	}
	if !res.Broken {
		t.Error("Broken = false, want true with one unparseable record")
	}
}

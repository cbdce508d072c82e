package checker

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/paulmach/orb"

	"github.com/MrSnakeDoc/layerlint/internal/config"
	"github.com/MrSnakeDoc/layerlint/internal/domain"
	"github.com/MrSnakeDoc/layerlint/internal/fetch"
	"github.com/MrSnakeDoc/layerlint/internal/logger"
	"github.com/MrSnakeDoc/layerlint/internal/source"
	"github.com/MrSnakeDoc/layerlint/internal/tile"
	"github.com/MrSnakeDoc/layerlint/internal/wms"
	"github.com/MrSnakeDoc/layerlint/internal/wmts"
)

// Fetcher is what the ancillary URL checks need from the HTTP client.
type Fetcher interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// Result aggregates state across one run. It is the only cross-record
// state the checker keeps, scoped to the run, never process-wide.
type Result struct {
	Processed int
	Broken    bool
	IconBytes int64
}

// Runner loads source record files and drives the per-type validators
// over them, one source at a time.
type Runner struct {
	loader *source.Loader
	wms    *wms.Validator
	tiles  *tile.Validator
	wmts   *wmts.Client
	client Fetcher
	logger logger.Logger
}

// New wires a runner from configuration: one HTTP client shared by
// every validator, carrying the configured user agent and timeout.
func New(cfg *config.Config, log logger.Logger) *Runner {
	client := fetch.New(cfg.HTTPTimeout, cfg.UserAgent)
	fallback := orb.Point{cfg.FallbackLon, cfg.FallbackLat}
	return &Runner{
		loader: source.NewLoader(),
		wms:    wms.NewValidator(client),
		tiles:  tile.NewValidator(client, fallback, cfg.ZoomSpan),
		wmts:   wmts.NewClient(client),
		client: client,
		logger: log,
	}
}

// Run processes each path in order. Paths without the .geojson
// extension or pointing at missing files are skipped at debug
// verbosity. A failure in one source never prevents the next from
// being checked.
func (r *Runner) Run(ctx context.Context, paths []string) *Result {
	res := &Result{}
	for _, path := range paths {
		if !strings.HasSuffix(strings.ToLower(path), ".geojson") {
			r.logger.Debugf("%s is not a geojson file, skip", path)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			r.logger.Debugf("%s does not exist, skip", path)
			continue
		}

		r.logger.Infof("Processing %s", path)
		rep := r.checkFile(ctx, path, res)
		r.flush(rep)
		res.Processed++
		if rep.Invalid() {
			res.Broken = true
			continue
		}
		r.logger.Infof("Finished processing %s", path)
	}
	if res.IconBytes > 0 {
		r.logger.Warnf("Disembedding all icons would save %.2f KB", float64(res.IconBytes)/1024.0)
	}
	return res
}

// CheckBytes validates one record submitted as raw bytes (the HTTP
// API path). name identifies the record in messages.
func (r *Runner) CheckBytes(ctx context.Context, name string, data []byte) *domain.Report {
	rep := domain.NewReport(name)
	src, err := r.loader.LoadBytes(ctx, name, data)
	if err != nil {
		rep.Errorf("%v", err)
		return rep
	}
	r.checkMeta(ctx, src, rep, &Result{})
	r.dispatch(ctx, src, rep)
	return rep
}

func (r *Runner) checkFile(ctx context.Context, path string, res *Result) *domain.Report {
	rep := domain.NewReport(path)
	src, err := r.loader.Load(ctx, path)
	if err != nil {
		rep.Errorf("%v", err)
		return rep
	}
	r.checkMeta(ctx, src, rep, res)
	r.dispatch(ctx, src, rep)
	return rep
}

// checkMeta runs the record-level checks that do not depend on the
// service type: license and privacy URLs, embedded icons, geometry
// and country expectations.
func (r *Runner) checkMeta(ctx context.Context, src *domain.Source, rep *domain.Report, res *Result) {
	name := src.Path

	// Too many sources still miss a license URL for the schema to
	// require it, so the checker enforces it here.
	if src.LicenseURL == "" {
		rep.Errorf("%s has no license_url", name)
	} else {
		r.checkReachable(ctx, name, "license url", src.LicenseURL, rep)
	}

	if src.PrivacyPolicyURL == "" {
		rep.Errorf("%s has no privacy_policy_url. Adding privacy policies to sources"+
			" is important to comply with legal requirements in certain countries.", name)
	} else {
		r.checkReachable(ctx, name, "privacy policy url", src.PrivacyPolicyURL, rep)
	}

	if strings.HasPrefix(src.Icon, "data:") {
		size := int64(len(src.Icon))
		res.IconBytes += size
		r.logger.Warnf("%s icon should be disembedded to save %.2f KB", name, float64(size)/1024.0)
	}

	// Sources must either declare a coverage polygon and a country, or
	// be explicitly global ("world" files carry a null geometry).
	if !strings.Contains(name, "world") {
		switch {
		case src.Geometry == nil:
			rep.Errorf("%s should have a valid geometry or be global", name)
		case src.Geometry.GeoJSONType() != "Polygon":
			rep.Errorf("%s should have a Polygon geometry", name)
		}
		if src.CountryCode == "" {
			rep.Errorf("%s should have a country or be global", name)
		}
	} else {
		if !src.GeometrySet {
			rep.Errorf("%s should have null geometry", name)
		} else if src.Geometry != nil {
			rep.Errorf("%s should have null geometry but it is %s", name, src.Geometry.GeoJSONType())
		}
	}
}

func (r *Runner) checkReachable(ctx context.Context, name, what, url string, rep *domain.Report) {
	status, _, err := r.client.Get(ctx, url)
	if err != nil {
		rep.Errorf("%s: %s %s is not reachable: %v", name, what, url, err)
		return
	}
	if status != http.StatusOK {
		rep.Errorf("%s: %s %s is not reachable: HTTP code: %d", name, what, url, status)
	}
}

// dispatch selects the validator by declared service type. The switch
// is exhaustive over the closed enum; anything else is reported as
// unchecked.
func (r *Runner) dispatch(ctx context.Context, src *domain.Source, rep *domain.Report) {
	switch src.Type {
	case domain.ServiceTMS:
		r.tiles.Check(ctx, src, rep)
	case domain.ServiceWMS:
		r.wms.Check(ctx, src, rep)
	case domain.ServiceWMSEndpoint:
		r.wms.CheckEndpoint(ctx, src, rep)
	case domain.ServiceWMTS:
		r.wmts.Check(ctx, src, rep)
	default:
		rep.Warnf("Imagery type %s is currently not checked.", src.Type)
	}
}

// flush forwards a report to the log: good at info, warnings at warn,
// errors at error, each stream in emission order.
func (r *Runner) flush(rep *domain.Report) {
	for _, msg := range rep.Good {
		r.logger.Infof("%s", msg)
	}
	for _, msg := range rep.Warnings {
		r.logger.Warnf("%s", msg)
	}
	for _, msg := range rep.Errors {
		r.logger.Errorf("%s", msg)
	}
}

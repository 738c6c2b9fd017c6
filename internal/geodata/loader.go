package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/calidata/monitor-inversiones/internal/geojson"
	"github.com/calidata/monitor-inversiones/internal/logger"
	"github.com/calidata/monitor-inversiones/internal/metrics"
)

// DefaultTimeout bounds a single dataset fetch unless the registry overrides it
const DefaultTimeout = 10 * time.Second

// LoadOptions tunes a single load. The zero value gives the standard
// behavior: corrected coordinates, cache on, registry/default timeout.
type LoadOptions struct {
	// RawCoordinates skips the coordinate corrector
	RawCoordinates bool
	// BypassCache skips both the cache lookup and the cache write
	BypassCache bool
	// Timeout overrides the registry timeout when non-zero
	Timeout time.Duration
}

// Loader fetches one named geographic dataset from the static file host,
// validates its structure, corrects coordinates and caches the result.
// Failures are never retried here; retry is the caller's concern.
type Loader struct {
	baseURL string
	client  *http.Client
	cache   *Cache
	reg     *Registry
	proc    *geojson.Processor
	log     *logger.Logger
}

func NewLoader(baseURL string, reg *Registry, cache *Cache, appLogger *logger.Logger) *Loader {
	return &Loader{
		baseURL: baseURL,
		client:  &http.Client{},
		reg:     reg,
		cache:   cache,
		proc:    geojson.NewProcessor(appLogger),
		log:     appLogger,
	}
}

// Load fetches and prepares one dataset. The cache key is the canonical name
// only: a cached entry satisfies any later call regardless of its options.
// That asymmetry is inherited behavior and deliberately kept.
func (l *Loader) Load(ctx context.Context, name string, opts LoadOptions) (*geojson.FeatureCollection, error) {
	const component = "GeoLoader"
	canonical := l.reg.Canonical(name)

	if !opts.BypassCache {
		if fc, ok := l.cache.Get(canonical); ok {
			metrics.GeoCacheHitsTotal.Inc()
			l.log.Debug(component, "Cache hit: name=%s", canonical)
			return fc, nil
		}
		metrics.GeoCacheMissesTotal.Inc()
	}

	path, err := l.reg.Resolve(canonical)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = l.reg.TimeoutFor(canonical, DefaultTimeout)
	}

	start := time.Now()
	metrics.DatasetLoadsTotal.WithLabelValues(canonical).Inc()

	fc, err := l.fetch(ctx, canonical, path, timeout)
	if err != nil {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(canonical).Inc()
		return nil, err
	}
	metrics.DatasetLoadDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	// Validation happens before caching and before coordinate processing so
	// malformed data never enters the cache.
	if err := geojson.Validate(fc, canonical); err != nil {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(canonical).Inc()
		return nil, err
	}

	if !opts.RawCoordinates {
		processed, report := l.proc.ProcessCollection(fc)
		fc = processed
		l.log.Info(component, "Dataset loaded: name=%s features=%d corrected=%d elapsedMs=%d",
			canonical, report.Features, report.Corrected, time.Since(start).Milliseconds())
	} else {
		l.log.Info(component, "Dataset loaded raw: name=%s features=%d elapsedMs=%d",
			canonical, len(fc.Features), time.Since(start).Milliseconds())
	}

	if !opts.BypassCache {
		l.cache.Set(canonical, fc)
	}
	return fc, nil
}

func (l *Loader) fetch(ctx context.Context, name, path string, timeout time.Duration) (*geojson.FeatureCollection, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("geojson %q: building request: %w", name, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geojson %q: fetch failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("geojson %q: unexpected HTTP status %d", name, resp.StatusCode)
	}

	var fc geojson.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("geojson %q: decoding body: %w", name, err)
	}
	return &fc, nil
}

// probe checks that a dataset answers on the static host without pulling the
// body, used by availability diagnostics
func (l *Loader) probe(ctx context.Context, name string, timeout time.Duration) error {
	canonical := l.reg.Canonical(name)
	path, err := l.reg.Resolve(canonical)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, l.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("geojson %q: building request: %w", name, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("geojson %q: probe failed: %w", name, err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("geojson %q: unexpected HTTP status %d", name, resp.StatusCode)
	}
	return nil
}

// LoadMultiple fetches several datasets concurrently with all-or-nothing
// semantics: the first failure fails the whole batch. Use the optimized
// batch loader when partial results are acceptable.
func (l *Loader) LoadMultiple(ctx context.Context, names []string, opts LoadOptions) (map[string]*geojson.FeatureCollection, error) {
	type loadResult struct {
		name string
		fc   *geojson.FeatureCollection
		err  error
	}

	results := make(chan loadResult, len(names))
	for _, name := range names {
		go func(n string) {
			fc, err := l.Load(ctx, n, opts)
			results <- loadResult{name: n, fc: fc, err: err}
		}(name)
	}

	out := make(map[string]*geojson.FeatureCollection, len(names))
	var firstErr error
	for range names {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.name] = res.fc
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

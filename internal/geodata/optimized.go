package geodata

import (
	"context"
	"sync"
	"time"

	"github.com/calidata/monitor-inversiones/internal/geojson"
	"github.com/calidata/monitor-inversiones/internal/logger"
)

// probeTimeout bounds each availability check
const probeTimeout = 3 * time.Second

// CategoryUnidades and CategoryCartografia name the registry categories the
// convenience loaders rely on
const (
	CategoryUnidades    = "unidades_proyecto"
	CategoryCartografia = "cartografia_base"
)

// BatchOptions selects what a batch load targets and how
type BatchOptions struct {
	// Categories unions the named categories' registered files. Ignored when
	// SpecificFiles is set.
	Categories []string
	// SpecificFiles loads exactly these datasets
	SpecificFiles []string
	// PriorityFirst sorts the target list by the registry priority table
	PriorityFirst bool
	// RawCoordinates skips the coordinate corrector for every file
	RawCoordinates bool
}

type BatchStats struct {
	Requested     int   `json:"requested"`
	Loaded        int   `json:"loaded"`
	TotalFeatures int   `json:"total_features"`
	ElapsedMs     int64 `json:"elapsed_ms"`
}

// BatchResult is always returned in full: partial failure is the expected
// steady state and callers must inspect FailedFiles
type BatchResult struct {
	Data        map[string]*geojson.FeatureCollection `json:"-"`
	LoadedFiles []string                              `json:"loaded_files"`
	FailedFiles []string                              `json:"failed_files"`
	Stats       BatchStats                            `json:"stats"`
}

// OptimizedLoader loads curated sets of datasets with per-file failure
// isolation, unlike Loader.LoadMultiple which is all-or-nothing
type OptimizedLoader struct {
	loader *Loader
	reg    *Registry
	log    *logger.Logger
}

func NewOptimizedLoader(loader *Loader, reg *Registry, appLogger *logger.Logger) *OptimizedLoader {
	return &OptimizedLoader{loader: loader, reg: reg, log: appLogger}
}

// LoadBatch loads the resolved target list sequentially. Sequential is
// deliberate: it keeps the static file host from absorbing a burst of large
// geometry downloads at once. Each file's failure is recorded and the rest
// continue.
func (o *OptimizedLoader) LoadBatch(ctx context.Context, opts BatchOptions) BatchResult {
	const component = "GeoBatch"
	start := time.Now()

	targets := opts.SpecificFiles
	if len(targets) == 0 {
		targets = o.reg.FilesFor(opts.Categories...)
	}
	if opts.PriorityFirst {
		targets = o.reg.SortByPriority(targets)
	}

	result := BatchResult{
		Data:        make(map[string]*geojson.FeatureCollection, len(targets)),
		LoadedFiles: []string{},
		FailedFiles: []string{},
	}
	result.Stats.Requested = len(targets)

	o.log.Info(component, "Starting batch load: requested=%d priorityFirst=%v", len(targets), opts.PriorityFirst)

	for _, name := range targets {
		fc, err := o.loader.Load(ctx, name, LoadOptions{RawCoordinates: opts.RawCoordinates})
		if err != nil {
			o.log.Warn(component, "Batch file failed, continuing: name=%s error=%v", name, err)
			result.FailedFiles = append(result.FailedFiles, name)
			continue
		}
		result.Data[name] = fc
		result.LoadedFiles = append(result.LoadedFiles, name)
		result.Stats.TotalFeatures += len(fc.Features)
	}

	result.Stats.Loaded = len(result.LoadedFiles)
	result.Stats.ElapsedMs = time.Since(start).Milliseconds()

	o.log.Info(component, "Batch load finished: loaded=%d failed=%d features=%d elapsedMs=%d",
		result.Stats.Loaded, len(result.FailedFiles), result.Stats.TotalFeatures, result.Stats.ElapsedMs)
	return result
}

// LoadEssential loads the minimum layer set the dashboard needs to render:
// both project-unit layers plus one base cartography layer
func (o *OptimizedLoader) LoadEssential(ctx context.Context) BatchResult {
	return o.LoadBatch(ctx, BatchOptions{
		SpecificFiles: []string{"equipamientos", "infraestructura_vial", "comunas"},
		PriorityFirst: true,
	})
}

// LoadComplete loads every registered dataset across all categories
func (o *OptimizedLoader) LoadComplete(ctx context.Context) BatchResult {
	return o.LoadBatch(ctx, BatchOptions{
		Categories:    o.reg.Categories(),
		PriorityFirst: true,
	})
}

// LoadCategory loads one category's registered files
func (o *OptimizedLoader) LoadCategory(ctx context.Context, category string) BatchResult {
	return o.LoadBatch(ctx, BatchOptions{Categories: []string{category}})
}

// Preload warms the cache in parallel, best effort. Coordinate processing is
// skipped for speed; the raw geometry sits in the cache and the consuming
// load corrects it. Individual failures are logged and dropped.
func (o *OptimizedLoader) Preload(ctx context.Context, names ...string) {
	const component = "GeoPreload"
	if len(names) == 0 {
		names = o.reg.AllFiles()
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			if _, err := o.loader.Load(ctx, n, LoadOptions{RawCoordinates: true}); err != nil {
				o.log.Warn(component, "Preload failed, ignoring: name=%s error=%v", n, err)
			}
		}(name)
	}
	wg.Wait()
	o.log.Info(component, "Preload pass complete: requested=%d", len(names))
}

// Availability partitions the registered datasets by reachability
type Availability struct {
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable"`
}

// ValidateAvailability probes every registered file with a short timeout.
// Diagnostic use only, never returns an error.
func (o *OptimizedLoader) ValidateAvailability(ctx context.Context) Availability {
	av := Availability{Available: []string{}, Unavailable: []string{}}
	for _, name := range o.reg.AllFiles() {
		if err := o.loader.probe(ctx, name, probeTimeout); err != nil {
			av.Unavailable = append(av.Unavailable, name)
			continue
		}
		av.Available = append(av.Available, name)
	}
	return av
}

// GeodataStats aggregates a loaded layer map
type GeodataStats struct {
	TotalLayers       int            `json:"total_layers"`
	TotalFeatures     int            `json:"total_features"`
	FeaturesPerLayer  map[string]int `json:"features_per_layer"`
	EstimatedMemoryKB int            `json:"estimated_memory_kb"`
}

// Stats is a pure aggregation over a batch's data map. The memory figure is
// the rough 1KB-per-feature heuristic, good enough for a diagnostics panel.
func Stats(data map[string]*geojson.FeatureCollection) GeodataStats {
	stats := GeodataStats{FeaturesPerLayer: make(map[string]int, len(data))}
	for name, fc := range data {
		count := len(fc.Features)
		stats.TotalLayers++
		stats.TotalFeatures += count
		stats.FeaturesPerLayer[name] = count
	}
	stats.EstimatedMemoryKB = stats.TotalFeatures
	return stats
}

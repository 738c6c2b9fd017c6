package geodata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/calidata/monitor-inversiones/internal/logger"
)

const testRegistryYAML = `
categories:
  capas:
    dir: /geodata
    files:
      - comunas
      - barrios
      - veredas
priorities:
  comunas: 1
  barrios: 2
aliases:
  communes: comunas
`

const comunasBody = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [3.45, -76.53]},
     "properties": {"comuna": "Comuna 1"}}
  ]
}`

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := ParseRegistry([]byte(testRegistryYAML))
	if err != nil {
		t.Fatalf("test registry: %v", err)
	}
	return reg
}

func newTestLoader(t *testing.T, handler http.Handler) (*Loader, *Cache, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := NewCache()
	loader := NewLoader(srv.URL, testRegistry(t), cache, logger.New(logger.LevelError))
	return loader, cache, srv
}

func TestLoaderLoad_CorrectsAndCaches(t *testing.T) {
	var fetches int64
	mux := http.NewServeMux()
	mux.HandleFunc("/geodata/comunas.geojson", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(comunasBody))
	})

	loader, cache, _ := newTestLoader(t, mux)

	fc, err := loader.Load(context.Background(), "comunas", LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// swapped [lat,lng] must come back as [lng,lat]
	coords := fc.Features[0].Geometry.Coordinates.([]float64)
	if coords[0] != -76.53 || coords[1] != 3.45 {
		t.Errorf("coordinates not corrected: %v", coords)
	}

	// second load must come from the cache
	if _, err := loader.Load(context.Background(), "comunas", LoadOptions{}); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", got)
	}

	stats := cache.Stats()
	if stats.Size != 1 || stats.Keys[0] != "comunas" {
		t.Errorf("unexpected cache stats: %+v", stats)
	}

	// alias hits the same cache entry
	if _, err := loader.Load(context.Background(), "communes", LoadOptions{}); err != nil {
		t.Fatalf("alias Load: %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("alias load refetched: fetches=%d", got)
	}
}

func TestLoaderLoad_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geodata/comunas.geojson", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/geodata/barrios.geojson", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "FeatureCollection", "features": 42}`))
	})
	mux.HandleFunc("/geodata/veredas.geojson", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "Mapa", "features": []}`))
	})

	loader, cache, _ := newTestLoader(t, mux)

	tests := []struct {
		name     string
		dataset  string
		wantPart string
	}{
		{"http error status", "comunas", "HTTP status 500"},
		{"features not an array", "barrios", "decoding body"},
		{"wrong top level type", "veredas", "type must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), tt.dataset, LoadOptions{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantPart)
			}
		})
	}

	// nothing invalid may enter the cache
	if stats := cache.Stats(); stats.Size != 0 {
		t.Errorf("cache should stay empty after failures, got %+v", stats)
	}

	if _, err := loader.Load(context.Background(), "atlantida", LoadOptions{}); err == nil {
		t.Error("unregistered dataset should fail to resolve")
	}
}

func TestLoadMultiple_AllOrNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geodata/comunas.geojson", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(comunasBody))
	})
	mux.HandleFunc("/geodata/barrios.geojson", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	loader, _, _ := newTestLoader(t, mux)

	if _, err := loader.LoadMultiple(context.Background(), []string{"comunas", "barrios"}, LoadOptions{}); err == nil {
		t.Fatal("one failing dataset must fail the whole batch")
	}

	data, err := loader.LoadMultiple(context.Background(), []string{"comunas"}, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadMultiple: %v", err)
	}
	if len(data) != 1 || data["comunas"] == nil {
		t.Errorf("unexpected result map: %v", data)
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache()
	cache.Set("a", nil)
	cache.Set("b", nil)

	cache.Clear("a")
	if stats := cache.Stats(); stats.Size != 1 || stats.Keys[0] != "b" {
		t.Errorf("after Clear(a): %+v", stats)
	}

	cache.Clear()
	if stats := cache.Stats(); stats.Size != 0 {
		t.Errorf("after Clear(): %+v", stats)
	}
}

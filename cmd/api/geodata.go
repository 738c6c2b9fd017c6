package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calidata/monitor-inversiones/internal/geodata"
	"github.com/calidata/monitor-inversiones/internal/geojson"
	"github.com/calidata/monitor-inversiones/internal/response"
)

type GetLayerResponse = response.APIResponse[*geojson.FeatureCollection]
type GetDisponibilidadResponse = response.APIResponse[geodata.Availability]
type GetGeodataStatsResponse = response.APIResponse[geodata.GeodataStats]
type GetCacheStatsResponse = response.APIResponse[geodata.CacheStats]

// handleGetLayer serves one processed geographic layer, cache-backed
func (app *application) handleGetLayer(w http.ResponseWriter, r *http.Request) {
	layer := chi.URLParam(r, "layer")

	batch := app.geo.LoadBatch(r.Context(), geodata.BatchOptions{SpecificFiles: []string{layer}})
	if len(batch.FailedFiles) > 0 {
		writeJSONError(w, http.StatusBadGateway, "failed to load layer "+layer)
		return
	}

	var fc *geojson.FeatureCollection
	for _, loaded := range batch.Data {
		fc = loaded
	}

	resp := &GetLayerResponse{
		Success: true,
		Data:    fc,
		Message: "Successfully loaded layer",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGeodataDisponibilidad(w http.ResponseWriter, r *http.Request) {
	av := app.geo.ValidateAvailability(r.Context())

	resp := &GetDisponibilidadResponse{
		Success: true,
		Data:    av,
		Message: "Geodata availability probe complete",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// handleGeodataStats aggregates over whatever a complete batch load returns;
// partially unavailable layers simply shrink the totals
func (app *application) handleGeodataStats(w http.ResponseWriter, r *http.Request) {
	batch := app.geo.LoadComplete(r.Context())

	resp := &GetGeodataStatsResponse{
		Success: true,
		Data:    geodata.Stats(batch.Data),
		Message: "Geodata statistics computed",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGeodataPreload(w http.ResponseWriter, r *http.Request) {
	app.geo.Preload(r.Context())

	resp := &GetCacheStatsResponse{
		Success: true,
		Data:    app.cache.Stats(),
		Message: "Preload pass finished",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGeodataCacheClear(w http.ResponseWriter, r *http.Request) {
	names := parseListParam(r.URL.Query().Get("layers"))
	app.cache.Clear(names...)

	resp := &GetCacheStatsResponse{
		Success: true,
		Data:    app.cache.Stats(),
		Message: "Cache cleared",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

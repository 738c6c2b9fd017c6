package main

import (
	"net/http"

	"github.com/calidata/monitor-inversiones/internal/datastore"
	"github.com/calidata/monitor-inversiones/internal/response"
)

type GetMovimientosResponse = response.APIResponse[[]datastore.MovimientoPresupuestal]
type GetEjecucionResponse = response.APIResponse[[]datastore.EjecucionPresupuestal]
type GetTendenciaResponse = response.APIResponse[[]datastore.TendenciaMensual]

func (app *application) handleGetMovimientos(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetMovimientosResponse{
		Success: true,
		Data:    snapshot.Movimientos,
		Message: "Successfully filtered budget movements",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetEjecucion(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	resp := &GetEjecucionResponse{
		Success: true,
		Data:    snapshot.Ejecucion,
		Message: "Successfully filtered budget execution",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// handleGetTendencia serves the monthly trend series over the filtered
// snapshot, capped to the most recent twelve periods
func (app *application) handleGetTendencia(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	snapshot := app.store.Snapshot(parseFilters(r))
	tendencia := datastore.Tendencia(snapshot.Movimientos, snapshot.Ejecucion)

	resp := &GetTendenciaResponse{
		Success: true,
		Data:    tendencia,
		Message: "Successfully computed budget trend",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

package main

import (
	"net/http"

	"github.com/calidata/monitor-inversiones/internal/datastore"
	"github.com/calidata/monitor-inversiones/internal/export"
	"github.com/calidata/monitor-inversiones/internal/response"
)

type GetProyectosResponse = response.APIResponse[datastore.FilteredData]
type GetProyectosStatsResponse = response.APIResponse[datastore.ResumenProyectos]

// handleGetProyectos returns the full filtered snapshot: the project list
// plus every derived collection under the same filter state, so the
// dashboard's tabs stay consistent with each other
func (app *application) handleGetProyectos(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	filters := parseFilters(r)
	data := app.store.Snapshot(filters)

	resp := &GetProyectosResponse{
		Success: true,
		Data:    data,
		Message: "Successfully filtered project datasets",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetProyectosStats(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	filters := parseFilters(r)
	snapshot := app.store.Snapshot(filters)
	resumen := datastore.Resumen(snapshot.Proyectos, snapshot.Movimientos, snapshot.Ejecucion, snapshot.Seguimiento)

	resp := &GetProyectosStatsResponse{
		Success: true,
		Data:    resumen,
		Message: "Successfully aggregated project statistics",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleExportProyectosCSV(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	filters := parseFilters(r)
	snapshot := app.store.Snapshot(filters)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="proyectos.csv"`)
	if err := export.ProyectosCSV(w, snapshot.Proyectos); err != nil {
		app.appLogger.Error("Export", "CSV export failed: error=%v", err)
	}
}

func (app *application) handleExportResumenCSV(w http.ResponseWriter, r *http.Request) {
	if !app.requireData(w) {
		return
	}

	filters := parseFilters(r)
	snapshot := app.store.Snapshot(filters)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="resumen_centros_gestores.csv"`)
	if err := export.ResumenCentroGestorCSV(w, snapshot.Proyectos, snapshot.Movimientos); err != nil {
		app.appLogger.Error("Export", "Summary CSV export failed: error=%v", err)
	}
}

func (app *application) handleRecargarDatos(w http.ResponseWriter, r *http.Request) {
	if err := app.store.LoadAll(r.Context()); err != nil {
		writeJSONError(w, http.StatusBadGateway, "data reload failed: "+err.Error())
		return
	}

	resp := &response.APIResponse[struct{}]{
		Success: true,
		Message: "Datasets reloaded",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// requireData rejects requests while the store has no usable dataset
func (app *application) requireData(w http.ResponseWriter) bool {
	if errMsg := app.store.Err(); errMsg != "" {
		writeJSONError(w, http.StatusServiceUnavailable, "datasets unavailable: "+errMsg)
		return false
	}
	return true
}
